package contact

import (
	"math"

	"contactbook/internal/domain"
)

// Query 是已校验的检索条件落到仓储层的形态
type Query struct {
	Filter domain.ContactFilter
	Limit  int
	Offset int
	// Beyond 偏移量超出 int 范围，必然越过最后一页，不必查行
	Beyond bool
}

// BuildSearch 调用方需先校验 page/size >= 1；owner 条件始终存在
func BuildSearch(owner string, r SearchRequest) Query {
	f := domain.ContactFilter{Owner: owner}
	if r.Name != nil {
		f.Name = *r.Name
	}
	if r.Email != nil {
		f.Email = *r.Email
	}
	if r.Phone != nil {
		f.Phone = *r.Phone
	}
	q := Query{Filter: f, Limit: r.Size}
	if r.Size <= 0 {
		return q
	}
	if r.Page-1 > math.MaxInt/r.Size {
		q.Beyond = true
		return q
	}
	q.Offset = (r.Page - 1) * r.Size
	return q
}

// TotalPages ceil(total/size)
func TotalPages(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	n := total / int64(size)
	if total%int64(size) != 0 {
		n++
	}
	return int(n)
}
