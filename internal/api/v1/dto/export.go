package dto

// ExportRequest selects how many feedback records go into the workbook.
type ExportRequest struct {
	Limit int `form:"limit,default=10000" binding:"min=1,max=100000"`
}
