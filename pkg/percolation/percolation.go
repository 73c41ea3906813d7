// Package percolation 实现 n×n 网格上的渗流模型
//
// 网格下标从 1 开始，(row, col) ∈ [1, n]。内部用一个 n*n+1 个元素的并查集，
// 0 号元素是虚拟的顶部节点，站点 (row, col) 对应 n*(row-1)+col。
//
// 没有虚拟的底部节点：如果底部也用一个虚拟节点，底部所有打开的站点会通过它
// 连成一片，顶部连通之后这些站点都会被误判为 full(backwash)。这里改为给每个
// 连通分量记一个 "是否接触底部" 的标记，只在分量的根上有效，合并时取或。
package percolation

import "percolation/pkg/unionfind"

// top 是虚拟顶部节点在并查集里的编号
const top = 0

// MaxSize 网格边长上限，保证 n*n+1 不超过 int32，也不会在 int 上溢出
const MaxSize = 46340

// Percolation 渗流模型，站点只能从 blocked 变成 open，不能重置
// 非并发安全，每次试验使用独立的实例
type Percolation struct {
	n             int
	open          []bool // 按并查集编号存放，open[0] 不使用
	openCount     int
	touchesBottom []bool // 只有分量的根上的值有效
	uf            *unionfind.UnionFind
	percolated    bool
}

// New 创建一个 n×n 且全部 blocked 的网格
func New(n int) (*Percolation, error) {
	if n <= 0 {
		return nil, invalidf("网格边长必须为正数: n=%d", n)
	}
	if n > MaxSize {
		return nil, invalidf("网格边长超过上限 %d: n=%d", MaxSize, n)
	}
	length := n*n + 1
	return &Percolation{
		n:             n,
		open:          make([]bool, length),
		touchesBottom: make([]bool, length),
		uf:            unionfind.NewUnionFind(length),
	}, nil
}

// Size 返回网格边长
func (p *Percolation) Size() int {
	return p.n
}

func (p *Percolation) validate(row, col int) error {
	if row < 1 || row > p.n || col < 1 || col > p.n {
		return invalidf("下标 (%d, %d) 不在 [1, %d] 之内", row, col, p.n)
	}
	return nil
}

// index 把 1 起始的行列映射到并查集编号，调用前必须先校验
func (p *Percolation) index(row, col int) int {
	return p.n*(row-1) + col
}

// bottom 读取 x 当前所在分量的底部标记
func (p *Percolation) bottom(x int) bool {
	return p.touchesBottom[p.uf.Find(x)]
}

// Open 打开站点 (row, col)，已经打开时什么都不做
func (p *Percolation) Open(row, col int) error {
	// 先校验再修改状态，非法参数不会留下半更新的模型
	if err := p.validate(row, col); err != nil {
		return err
	}
	site := p.index(row, col)
	if p.open[site] {
		return nil
	}
	p.open[site] = true
	p.openCount++

	isBottom := row == p.n
	root := p.uf.Find(site)

	// 合并会改变谁是根，邻居分量的标记必须在 Union 之前读出来
	link := func(other int) {
		if p.bottom(other) {
			isBottom = true
		}
		root, _ = p.uf.Union(site, other)
	}

	if row > 1 && p.open[p.index(row-1, col)] {
		link(p.index(row-1, col))
	}
	if row < p.n && p.open[p.index(row+1, col)] {
		link(p.index(row+1, col))
	}
	if col > 1 && p.open[p.index(row, col-1)] {
		link(p.index(row, col-1))
	}
	if col < p.n && p.open[p.index(row, col+1)] {
		link(p.index(row, col+1))
	}
	if row == 1 {
		link(top)
	}

	// 用 Union 返回的根把标记写回去
	if isBottom {
		p.touchesBottom[root] = true
	}
	if !p.percolated && p.touchesBottom[root] && p.uf.Connected(root, top) {
		p.percolated = true
	}
	return nil
}

// IsOpen 判断站点是否已打开
func (p *Percolation) IsOpen(row, col int) (bool, error) {
	if err := p.validate(row, col); err != nil {
		return false, err
	}
	return p.open[p.index(row, col)], nil
}

// IsFull 判断站点是否打开并且和顶部连通
func (p *Percolation) IsFull(row, col int) (bool, error) {
	if err := p.validate(row, col); err != nil {
		return false, err
	}
	site := p.index(row, col)
	return p.open[site] && p.uf.Connected(site, top), nil
}

// NumberOfOpenSites 返回已打开的站点数
func (p *Percolation) NumberOfOpenSites() int {
	return p.openCount
}

// Percolates 系统是否已经渗透，一旦为 true 就不会再变回 false
func (p *Percolation) Percolates() bool {
	return p.percolated
}
