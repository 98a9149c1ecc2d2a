package dto

type StatCard struct {
	Title       string `json:"title"`
	Value       int64  `json:"value"`
	IconType    string `json:"iconType"`
	Color       string `json:"color"`
	BorderColor string `json:"borderColor"`
}

type AdminStat struct {
	Label    string `json:"label"`
	Value    int64  `json:"value"`
	IconType string `json:"iconType"`
	Color    string `json:"color"`
}

type RecentActivity struct {
	Title    string `json:"title"`
	Time     string `json:"time"`
	Color    string `json:"color"`
	IconType string `json:"iconType"`
}

type ActivityPoint struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

type AdminDashboardStats struct {
	Stats          []AdminStat      `json:"stats"`
	RecentActivity []RecentActivity `json:"recentActivity"`
	ActivityData   []ActivityPoint  `json:"activityData"`
}
