package domain

// Mount - именованная точка монтирования виджета дашборда.
type Mount string

const (
	MountTotalReviews   Mount = "total-reviews"
	MountMonthlyReviews Mount = "monthly-reviews"
	MountMonthlyTrend   Mount = "monthly-trend"
	MountCostSavings    Mount = "cost-savings"
	MountAvgTime        Mount = "avg-time"
	MountRecentReviews  Mount = "recent-reviews"
	MountReviewsChart   Mount = "reviews-chart"
	MountOutcomesChart  Mount = "outcomes-chart"
	MountStatusBanner   Mount = "status-banner"
)

// Mounts перечисляет все точки монтирования, которые рендерер ожидает при инициализации.
var Mounts = []Mount{
	MountTotalReviews,
	MountMonthlyReviews,
	MountMonthlyTrend,
	MountCostSavings,
	MountAvgTime,
	MountRecentReviews,
	MountReviewsChart,
	MountOutcomesChart,
	MountStatusBanner,
}

// Badge - текст со стилевым классом и необязательной иконкой.
type Badge struct {
	Class string `json:"class,omitempty"`
	Icon  string `json:"icon,omitempty"`
	Text  string `json:"text"`
}

// Row - строка таблицы последних ревью.
type Row struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Reviewer string `json:"reviewer"`
	Date     string `json:"date"`
	Status   Badge  `json:"status"`
}

// BannerState - состояние статусного баннера.
type BannerState string

const (
	BannerIdle     BannerState = "idle"
	BannerFetching BannerState = "fetching"
	BannerSuccess  BannerState = "success"
	BannerError    BannerState = "error"
)

// Banner - содержимое статусного баннера.
type Banner struct {
	State   BannerState `json:"state"`
	Message string      `json:"message"`
}

// ChartDataset - один ряд данных графика.
type ChartDataset struct {
	Label           string   `json:"label,omitempty"`
	Data            []int64  `json:"data"`
	BorderColor     string   `json:"borderColor,omitempty"`
	BackgroundColor []string `json:"backgroundColor,omitempty"`
	Tension         float64  `json:"tension,omitempty"`
	Fill            bool     `json:"fill,omitempty"`
}

// ChartData - подписи и ряды графика.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartOptions - параметры отображения графика.
// TooltipPrefix выводится перед сырым значением точки во всплывающей подсказке.
type ChartOptions struct {
	Responsive          bool   `json:"responsive"`
	MaintainAspectRatio bool   `json:"maintainAspectRatio"`
	ShowLegend          bool   `json:"showLegend"`
	TooltipPrefix       string `json:"tooltipPrefix,omitempty"`
}

// ChartConfig полностью описывает один график.
type ChartConfig struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`
}

// Surface - набор операций записи, доступных одному проходу отрисовки.
type Surface interface {
	SetText(mount Mount, text string) error
	SetBadge(mount Mount, badge Badge) error
	ReplaceRows(mount Mount, rows []Row) error
	DisposeChart(mount Mount) error
	MountChart(mount Mount, chart ChartConfig) error
	SetBanner(banner Banner) error
}

// View выдает Surface под эксклюзивным доступом на время прохода отрисовки.
// Изменения внутри fn видны читателям только целиком.
type View interface {
	Update(fn func(s Surface) error) error
}
