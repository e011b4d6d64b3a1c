package model

type StorageUsage struct {
	Used  int64 `json:"used"`
	Total int64 `json:"total"`
}

func (u StorageUsage) Available() int64 {
	if u.Used >= u.Total {
		return 0
	}
	return u.Total - u.Used
}
