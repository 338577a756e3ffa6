package view

import (
	"fmt"
	"sync"

	"review-dashboard/internal/domain"
)

// Chart - экземпляр графика, привязанный к точке монтирования.
type Chart struct {
	ID     int64              `json:"id"`
	Config domain.ChartConfig `json:"config"`
}

// State - копия дерева представления для чтения.
type State struct {
	Texts   map[domain.Mount]string       `json:"texts"`
	Badges  map[domain.Mount]domain.Badge `json:"badges"`
	Rows    []domain.Row                  `json:"rows"`
	Charts  map[domain.Mount]Chart        `json:"charts"`
	Banner  domain.Banner                 `json:"banner"`
	Version int64                         `json:"version"`
}

// Widget - тип виджета в точке монтирования.
type Widget int

const (
	WidgetText Widget = iota
	WidgetBadge
	WidgetRows
	WidgetChart
	WidgetBanner
)

// Layout сопоставляет точкам монтирования тип виджета.
type Layout map[domain.Mount]Widget

// DefaultLayout - разметка стандартной страницы дашборда.
func DefaultLayout() Layout {
	return Layout{
		domain.MountTotalReviews:   WidgetText,
		domain.MountMonthlyReviews: WidgetText,
		domain.MountCostSavings:    WidgetText,
		domain.MountAvgTime:        WidgetText,
		domain.MountMonthlyTrend:   WidgetBadge,
		domain.MountRecentReviews:  WidgetRows,
		domain.MountReviewsChart:   WidgetChart,
		domain.MountOutcomesChart:  WidgetChart,
		domain.MountStatusBanner:   WidgetBanner,
	}
}

// Memory - дерево представления в памяти, реализует domain.View.
// Все записи выполняются под эксклюзивной блокировкой внутри Update.
type Memory struct {
	mu      sync.RWMutex
	layout  Layout
	texts   map[domain.Mount]string
	badges  map[domain.Mount]domain.Badge
	rows    []domain.Row
	charts  map[domain.Mount]Chart
	live    map[domain.Mount]int
	banner  domain.Banner
	nextID  int64
	version int64
}

// NewMemory создает дерево представления со всеми точками монтирования из layout.
func NewMemory(layout Layout) *Memory {
	m := &Memory{
		layout: layout,
		texts:  make(map[domain.Mount]string),
		badges: make(map[domain.Mount]domain.Badge),
		rows:   []domain.Row{},
		charts: make(map[domain.Mount]Chart),
		live:   make(map[domain.Mount]int),
		banner: domain.Banner{State: domain.BannerIdle},
	}
	for mount, kind := range layout {
		switch kind {
		case WidgetText:
			m.texts[mount] = ""
		case WidgetBadge:
			m.badges[mount] = domain.Badge{}
		}
	}
	return m
}

// Update выполняет fn под блокировкой записи.
// Если fn вернул ошибку, изменения откатываются к состоянию до вызова.
func (m *Memory) Update(fn func(s domain.Surface) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.snapshotLocked()
	defer func() {
		if r := recover(); r != nil {
			m.restoreLocked(before)
			panic(r)
		}
	}()
	if err := fn(&surface{m: m}); err != nil {
		m.restoreLocked(before)
		return err
	}
	m.version++
	return nil
}

// State возвращает копию текущего состояния.
func (m *Memory) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := State{
		Texts:   make(map[domain.Mount]string, len(m.texts)),
		Badges:  make(map[domain.Mount]domain.Badge, len(m.badges)),
		Rows:    append([]domain.Row{}, m.rows...),
		Charts:  make(map[domain.Mount]Chart, len(m.charts)),
		Banner:  m.banner,
		Version: m.version,
	}
	for k, v := range m.texts {
		st.Texts[k] = v
	}
	for k, v := range m.badges {
		st.Badges[k] = v
	}
	for k, c := range m.charts {
		st.Charts[k] = c
	}
	return st
}

// LiveCharts возвращает количество неосвобожденных экземпляров графиков в точке монтирования.
func (m *Memory) LiveCharts(mount domain.Mount) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.live[mount]
}

type savedState struct {
	texts  map[domain.Mount]string
	badges map[domain.Mount]domain.Badge
	rows   []domain.Row
	charts map[domain.Mount]Chart
	live   map[domain.Mount]int
	banner domain.Banner
	nextID int64
}

func (m *Memory) snapshotLocked() savedState {
	s := savedState{
		texts:  make(map[domain.Mount]string, len(m.texts)),
		badges: make(map[domain.Mount]domain.Badge, len(m.badges)),
		rows:   m.rows,
		charts: make(map[domain.Mount]Chart, len(m.charts)),
		live:   make(map[domain.Mount]int, len(m.live)),
		banner: m.banner,
		nextID: m.nextID,
	}
	for k, v := range m.texts {
		s.texts[k] = v
	}
	for k, v := range m.badges {
		s.badges[k] = v
	}
	for k, v := range m.charts {
		s.charts[k] = v
	}
	for k, v := range m.live {
		s.live[k] = v
	}
	return s
}

func (m *Memory) restoreLocked(s savedState) {
	m.texts = s.texts
	m.badges = s.badges
	m.rows = s.rows
	m.charts = s.charts
	m.live = s.live
	m.banner = s.banner
	m.nextID = s.nextID
}

func (m *Memory) check(mount domain.Mount, want Widget) error {
	kind, ok := m.layout[mount]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownMount, mount)
	}
	if kind != want {
		return fmt.Errorf("%w: %s has a different widget type", domain.ErrUnknownMount, mount)
	}
	return nil
}

// surface реализует domain.Surface без собственной блокировки: ее держит Update.
type surface struct {
	m *Memory
}

func (s *surface) SetText(mount domain.Mount, text string) error {
	if err := s.m.check(mount, WidgetText); err != nil {
		return err
	}
	s.m.texts[mount] = text
	return nil
}

func (s *surface) SetBadge(mount domain.Mount, badge domain.Badge) error {
	if err := s.m.check(mount, WidgetBadge); err != nil {
		return err
	}
	s.m.badges[mount] = badge
	return nil
}

func (s *surface) ReplaceRows(mount domain.Mount, rows []domain.Row) error {
	if err := s.m.check(mount, WidgetRows); err != nil {
		return err
	}
	s.m.rows = append([]domain.Row{}, rows...)
	return nil
}

func (s *surface) DisposeChart(mount domain.Mount) error {
	if err := s.m.check(mount, WidgetChart); err != nil {
		return err
	}
	if _, ok := s.m.charts[mount]; ok {
		delete(s.m.charts, mount)
		s.m.live[mount]--
	}
	return nil
}

func (s *surface) MountChart(mount domain.Mount, cfg domain.ChartConfig) error {
	if err := s.m.check(mount, WidgetChart); err != nil {
		return err
	}
	if _, ok := s.m.charts[mount]; ok {
		return fmt.Errorf("%w: %s", domain.ErrChartMounted, mount)
	}
	s.m.nextID++
	s.m.charts[mount] = Chart{ID: s.m.nextID, Config: cfg}
	s.m.live[mount]++
	return nil
}

func (s *surface) SetBanner(banner domain.Banner) error {
	if _, ok := s.m.layout[domain.MountStatusBanner]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownMount, domain.MountStatusBanner)
	}
	s.m.banner = banner
	return nil
}
