package domain

// Paging 分页元信息；CurrentPage 原样回显请求页码，越界也不报错
type Paging struct {
	CurrentPage int `json:"currentPage"`
	Size        int `json:"size"`
	TotalPage   int `json:"totalPage"`
}

type Page[T any] struct {
	Items  []T    `json:"items"`
	Paging Paging `json:"paging"`
}

// Envelope 供传输层拆成 data + paging 两段
func (p Page[T]) Envelope() (any, Paging) {
	if p.Items == nil {
		return []T{}, p.Paging
	}
	return p.Items, p.Paging
}
