package task

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
	Category    string  `json:"category" binding:"omitempty,oneof=standard growth"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ProjectID   *string `json:"project_id" binding:"omitempty,uuid"`
	AssignedTo  string  `json:"assigned_to" binding:"required,uuid"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ProjectID   *string `json:"project_id" binding:"omitempty,uuid"`
	AssignedTo  *string `json:"assigned_to" binding:"omitempty,uuid"`
	DueDate     *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

type UsageLine struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

type DeductInventoryRequest struct {
	Items []UsageLine `json:"items" binding:"required,min=1,dive"`
}

type ListFilter struct {
	Status     string
	Category   string
	ProjectID  string
	AssignedTo string
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	ProjectID   *string `json:"project_id,omitempty"`
	AssignedTo  string  `json:"assigned_to"`
	CreatedBy   string  `json:"created_by"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      string  `json:"status"`
	SubmittedAt *string `json:"submitted_at,omitempty"`
	CompletedAt *string `json:"completed_at,omitempty"`
	DeletedAt   *string `json:"deleted_at,omitempty"`
	DeletedBy   *string `json:"deleted_by,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

type MessageResponse struct {
	ID        string `json:"id"`
	TaskID    string `json:"task_id"`
	SenderID  string `json:"sender_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

type AttachmentResponse struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	UploadedBy  string `json:"uploaded_by"`
	CreatedAt   string `json:"created_at"`
}

type UsageResponse struct {
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
	Remaining int    `json:"remaining"`
}

type DeductInventoryResponse struct {
	TaskID string          `json:"task_id"`
	Items  []UsageResponse `json:"items"`
}
