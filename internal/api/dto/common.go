package dto

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page  int `form:"page,default=1" validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=100"`
}

// Offset 计算分页偏移量
func (p *PageQuery) Offset() int {
	return (p.Page - 1) * p.Limit
}
