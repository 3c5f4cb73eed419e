package loader

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/oxy-go/animgraph/engine/model"
)

// gltfSkeletonExtractorImpl is the implementation of the gltfSkeletonExtractor interface.
type gltfSkeletonExtractorImpl struct {
	doc *gltf.Document
}

// gltfSkeletonExtractor converts a glTF document's skin definitions into
// engine-ready Skeleton structs with topologically sorted bones.
type gltfSkeletonExtractor interface {
	// ExtractSkeleton extracts a skeleton from a skin by index, along with
	// the old-to-new bone index mapping produced by the topological sort —
	// needed by the animation extractor to remap channel targets.
	ExtractSkeleton(skinIndex int) (*model.Skeleton, map[int]int32, error)

	// FindSkinForNode returns the skin index the node itself is bound to.
	// Ancestors are not searched. Returns -1 if none.
	FindSkinForNode(nodeIndex int) int
}

var _ gltfSkeletonExtractor = &gltfSkeletonExtractorImpl{}

// newGLTFSkeletonExtractor creates a skeleton extractor over doc.
func newGLTFSkeletonExtractor(doc *gltf.Document) gltfSkeletonExtractor {
	return &gltfSkeletonExtractorImpl{doc: doc}
}

func (e *gltfSkeletonExtractorImpl) FindSkinForNode(nodeIndex int) int {
	if nodeIndex < 0 || nodeIndex >= len(e.doc.Nodes) {
		return -1
	}
	node := e.doc.Nodes[nodeIndex]
	if node.Skin != nil {
		return int(*node.Skin)
	}
	return -1
}

func (e *gltfSkeletonExtractorImpl) ExtractSkeleton(skinIndex int) (*model.Skeleton, map[int]int32, error) {
	if skinIndex < 0 || skinIndex >= len(e.doc.Skins) {
		return nil, nil, fmt.Errorf("skin index %d out of range", skinIndex)
	}
	skin := e.doc.Skins[skinIndex]

	var inverseBind [][16]float32
	if skin.InverseBindMatrices != nil {
		acc := e.doc.Accessors[*skin.InverseBindMatrices]
		mats, err := modeler.ReadAccessor(e.doc, acc, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("read inverse bind matrices: %w", err)
		}
		m4, ok := mats.([][16]float32)
		if !ok {
			return nil, nil, fmt.Errorf("inverse bind matrices: unexpected accessor shape %T", mats)
		}
		inverseBind = m4
	}

	bones := make([]model.Bone, len(skin.Joints))
	for i, jointNode := range skin.Joints {
		if int(jointNode) < 0 || int(jointNode) >= len(e.doc.Nodes) {
			return nil, nil, fmt.Errorf("joint %d: invalid node index %d", i, jointNode)
		}
		node := e.doc.Nodes[jointNode]
		bone := &bones[i]
		bone.Name = node.Name
		if bone.Name == "" {
			bone.Name = fmt.Sprintf("bone_%d", i)
		}
		if i < len(inverseBind) {
			bone.InverseBindMatrix = inverseBind[i]
		} else {
			bone.InverseBindMatrix = gltfIdentityMatrix()
		}
		bone.LocalTransform = gltfExtractNodeTransform(&node)
	}

	nodeToBone := make(map[uint32]int32, len(skin.Joints))
	for boneIdx, jointNode := range skin.Joints {
		nodeToBone[jointNode] = int32(boneIdx)
	}

	var rootIndices []int32
	for boneIdx, jointNode := range skin.Joints {
		parentFound := false
		for nodeIdx := range e.doc.Nodes {
			for _, childIdx := range e.doc.Nodes[nodeIdx].Children {
				if childIdx == jointNode {
					if parentBone, ok := nodeToBone[uint32(nodeIdx)]; ok {
						bones[boneIdx].ParentIndex = parentBone
						parentFound = true
					}
					break
				}
			}
			if parentFound {
				break
			}
		}
		if !parentFound {
			bones[boneIdx].ParentIndex = -1
			rootIndices = append(rootIndices, int32(boneIdx))
		}
	}

	sortedBones, sortedRoots, nameToIndex, oldToNew := gltfTopologicalSortBones(bones, rootIndices)

	boneMapping := make(map[int]int32, len(skin.Joints))
	for boneIdx, jointNode := range skin.Joints {
		boneMapping[int(jointNode)] = oldToNew[int32(boneIdx)]
	}

	return &model.Skeleton{
		Bones:           sortedBones,
		RootBoneIndices: sortedRoots,
		BoneNameToIndex: nameToIndex,
		RootTransform:   gltfIdentityMatrix(),
	}, boneMapping, nil
}

func gltfExtractNodeTransform(node *gltf.Node) model.Transform {
	t := model.Transform{
		Translation: [3]float32{0, 0, 0},
		Rotation:    [4]float32{0, 0, 0, 1},
		Scale:       [3]float32{1, 1, 1},
	}
	if node.MatrixOrDefault() != gltf.DefaultMatrix {
		m := node.Matrix
		return gltfDecomposeMatrix([16]float32(m))
	}
	t.Translation = node.TranslationOrDefault()
	t.Rotation = node.RotationOrDefault()
	t.Scale = node.ScaleOrDefault()
	return t
}

func gltfIdentityMatrix() [16]float32 {
	return [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// gltfDecomposeMatrix decomposes a column-major 4x4 matrix into TRS,
// assuming no shear.
func gltfDecomposeMatrix(m [16]float32) model.Transform {
	var t model.Transform
	t.Translation = [3]float32{m[12], m[13], m[14]}

	sx := gltfVectorLength(m[0], m[1], m[2])
	sy := gltfVectorLength(m[4], m[5], m[6])
	sz := gltfVectorLength(m[8], m[9], m[10])
	t.Scale = [3]float32{sx, sy, sz}

	if sx < 1e-4 {
		sx = 1
	}
	if sy < 1e-4 {
		sy = 1
	}
	if sz < 1e-4 {
		sz = 1
	}
	r := [9]float32{
		m[0] / sx, m[1] / sx, m[2] / sx,
		m[4] / sy, m[5] / sy, m[6] / sy,
		m[8] / sz, m[9] / sz, m[10] / sz,
	}
	t.Rotation = gltfMatrixToQuaternion(r)
	return t
}

func gltfVectorLength(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y + z*z)))
}

func gltfMatrixToQuaternion(m [9]float32) [4]float32 {
	r00, r01, r02 := m[0], m[1], m[2]
	r10, r11, r12 := m[3], m[4], m[5]
	r20, r21, r22 := m[6], m[7], m[8]

	trace := r00 + r11 + r22
	var x, y, z, w float32

	switch {
	case trace > 0:
		s := float32(math.Sqrt(float64(trace+1))) * 2
		w = 0.25 * s
		x = (r21 - r12) / s
		y = (r02 - r20) / s
		z = (r10 - r01) / s
	case r00 > r11 && r00 > r22:
		s := float32(math.Sqrt(float64(1+r00-r11-r22))) * 2
		w = (r21 - r12) / s
		x = 0.25 * s
		y = (r01 + r10) / s
		z = (r02 + r20) / s
	case r11 > r22:
		s := float32(math.Sqrt(float64(1+r11-r00-r22))) * 2
		w = (r02 - r20) / s
		x = (r01 + r10) / s
		y = 0.25 * s
		z = (r12 + r21) / s
	default:
		s := float32(math.Sqrt(float64(1+r22-r00-r11))) * 2
		w = (r10 - r01) / s
		x = (r02 + r20) / s
		y = (r12 + r21) / s
		z = 0.25 * s
	}

	length := float32(math.Sqrt(float64(x*x + y*y + z*z + w*w)))
	if length > 1e-4 {
		x, y, z, w = x/length, y/length, z/length, w/length
	}
	return [4]float32{x, y, z, w}
}

// gltfTopologicalSortBones reorders bones so parents always precede
// children, which §4.6's world-transform sweep relies on.
func gltfTopologicalSortBones(bones []model.Bone, rootIndices []int32) ([]model.Bone, []int32, map[string]int32, map[int32]int32) {
	if len(bones) == 0 {
		return bones, rootIndices, map[string]int32{}, map[int32]int32{}
	}

	children := make(map[int32][]int32)
	for i, bone := range bones {
		if bone.ParentIndex >= 0 {
			children[bone.ParentIndex] = append(children[bone.ParentIndex], int32(i))
		}
	}

	sorted := make([]int32, 0, len(bones))
	queue := append([]int32(nil), rootIndices...)
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]
		sorted = append(sorted, idx)
		queue = append(queue, children[idx]...)
	}
	if len(sorted) < len(bones) {
		visited := make(map[int32]bool, len(sorted))
		for _, idx := range sorted {
			visited[idx] = true
		}
		for i := range bones {
			if !visited[int32(i)] {
				sorted = append(sorted, int32(i))
			}
		}
	}

	oldToNew := make(map[int32]int32, len(bones))
	for newIdx, oldIdx := range sorted {
		oldToNew[oldIdx] = int32(newIdx)
	}

	newBones := make([]model.Bone, len(bones))
	nameToIndex := make(map[string]int32, len(bones))
	var newRoots []int32
	for newIdx, oldIdx := range sorted {
		bone := bones[oldIdx]
		if bone.ParentIndex >= 0 {
			bone.ParentIndex = oldToNew[bone.ParentIndex]
		} else {
			newRoots = append(newRoots, int32(newIdx))
		}
		newBones[newIdx] = bone
		nameToIndex[bone.Name] = int32(newIdx)
	}
	return newBones, newRoots, nameToIndex, oldToNew
}
