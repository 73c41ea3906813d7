package unionfind

import "fmt"

// UnionFind 是并查集结构，支持路径压缩和按秩合并
// 元素编号固定为 [0, n)，构造后不能扩容
type UnionFind struct {
	parent []int
	rank   []int
	size   []int // 每个集合的大小，只有根节点上的值有效
	count  int   // 当前集合个数
}

// NewUnionFind 初始化并查集，元素范围为 [0, n)
// n 为负数时按 0 处理
func NewUnionFind(n int) *UnionFind {
	if n < 0 {
		n = 0
	}
	parent := make([]int, n)
	rank := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{parent: parent, rank: rank, size: size, count: n}
}

// Len 返回元素个数
func (uf *UnionFind) Len() int {
	return len(uf.parent)
}

// Count 返回当前集合(连通分量)的个数
func (uf *UnionFind) Count() int {
	return uf.count
}

// Valid 判断 x 是否是合法的元素编号
func (uf *UnionFind) Valid(x int) bool {
	return x >= 0 && x < len(uf.parent)
}

// Find 查找元素所在集合的根节点（带路径压缩）
// x 越界属于调用方违约，直接 panic
func (uf *UnionFind) Find(x int) int {
	if !uf.Valid(x) {
		panic(fmt.Sprintf("unionfind: 元素 %d 越界 [0, %d)", x, len(uf.parent)))
	}
	// 先找到根，再把路径上的节点全部挂到根上
	// 不用递归，n*n 规模的网格上链可能很长
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// Union 合并两个集合（按秩优化）
// 返回合并后集合的根，merged 为 false 表示原本就在同一个集合
// 合并后原来的某个根会变成子节点，挂在根上的附加数据需要调用方用返回的 root 重新写回
func (uf *UnionFind) Union(x, y int) (root int, merged bool) {
	rootX := uf.Find(x)
	rootY := uf.Find(y)
	if rootX == rootY {
		return rootX, false // 已经在同一个集合
	}

	if uf.rank[rootX] < uf.rank[rootY] {
		rootX, rootY = rootY, rootX
	}
	// 此时 rootX 的秩不小于 rootY，把 rootY 挂到 rootX 下面
	uf.parent[rootY] = rootX
	uf.size[rootX] += uf.size[rootY]
	if uf.rank[rootX] == uf.rank[rootY] {
		uf.rank[rootX]++
	}
	uf.count--
	return rootX, true
}

// Connected 判断两个元素是否在同一个集合
func (uf *UnionFind) Connected(x, y int) bool {
	return uf.Find(x) == uf.Find(y)
}

// Size 返回某个集合的大小
func (uf *UnionFind) Size(x int) int {
	return uf.size[uf.Find(x)]
}
