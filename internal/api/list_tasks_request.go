package api

// ListTasksRequest 綁定 GET /tasks 查詢參數；條件為 AND 結合
// swagger:model api.ListTasksRequest
type ListTasksRequest struct {
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high"`
	Category string `query:"category"`
	Status   string `query:"status" validate:"omitempty,oneof=pending completed"`
	Search   string `query:"search"`
	SortBy   string `query:"sortBy" validate:"omitempty,oneof=dueDate priority status"`
}
