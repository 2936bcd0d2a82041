package model

// DispatchDetail : исход обработки одной отправки в рамках прогона
type DispatchDetail struct {
	UUID    string `json:"uuid"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BatchResult : сводка одного прогона диспетчера
type BatchResult struct {
	Processed int              `json:"processed"`
	Success   int              `json:"success"`
	Failed    int              `json:"failed"`
	Details   []DispatchDetail `json:"details"`
}
