package domain

// TreeNode represents a folder or file of an export tree
type TreeNode struct {
	Name     string
	Path     string
	IsDir    bool
	Children []*TreeNode
	Parent   *TreeNode
}

// Flatten returns the node and all descendants in depth-first order
func (n *TreeNode) Flatten() []*TreeNode {
	var result []*TreeNode
	n.flattenRecursive(&result)
	return result
}

func (n *TreeNode) flattenRecursive(result *[]*TreeNode) {
	*result = append(*result, n)
	for _, child := range n.Children {
		child.flattenRecursive(result)
	}
}

// Depth returns the depth of this node in the tree
func (n *TreeNode) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// CountFiles returns the number of non-directory nodes below n
func (n *TreeNode) CountFiles() int {
	count := 0
	for _, node := range n.Flatten() {
		if !node.IsDir {
			count++
		}
	}
	return count
}
