package state

import (
	"sync"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/google/uuid"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	StateSearchKeyword UserState = "search_keyword" // ждём ключевое слово
	StatePlanTemplate  UserState = "plan_template"  // ждём key=value для шаблона
)

// Session состояние одного пользователя: запрос выдачи и черновик расписания.
// Поля меняются только внутри Manager.Update.
type Session struct {
	mu sync.Mutex

	ID    uuid.UUID
	State UserState

	Query catalog.Query

	LessonID    int64
	LessonTitle string
	Draft       *schedule.Draft
	DraftID     uuid.UUID
	PlanMonth   int
	PlanYear    int
}

// HasDraft проверяет, открыт ли планировщик
func (s *Session) HasDraft() bool {
	return s.Draft != nil
}

// OpenDraft привязывает новый черновик к занятию
func (s *Session) OpenDraft(lessonID int64, title string, draft *schedule.Draft) {
	today := draft.Today()
	s.LessonID = lessonID
	s.LessonTitle = title
	s.Draft = draft
	s.DraftID = uuid.New()
	s.PlanMonth = int(today.Month)
	s.PlanYear = today.Year
}

// CloseDraft сбрасывает планировщик
func (s *Session) CloseDraft() {
	s.LessonID = 0
	s.LessonTitle = ""
	s.Draft = nil
	s.DraftID = uuid.Nil
	s.PlanMonth = 0
	s.PlanYear = 0
	if s.State == StatePlanTemplate {
		s.State = StateNone
	}
}

// Manager управляет сессиями пользователей.
// Общая блокировка защищает только map, у каждой сессии своя.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // telegramID -> Session
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Update выполняет fn над сессией под её блокировкой. Сессия создаётся при первом обращении.
// Долгий fn одного пользователя не задерживает остальных.
func (sm *Manager) Update(telegramID int64, fn func(s *Session)) {
	s := sm.session(telegramID)

	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s)
}

// Query возвращает текущий запрос выдачи
func (sm *Manager) Query(telegramID int64) catalog.Query {
	s, ok := sm.lookup(telegramID)
	if !ok {
		return catalog.NewQuery()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Query
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	s, ok := sm.lookup(telegramID)
	if !ok {
		return StateNone
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.State
}

// SetState устанавливает состояние пользователя
func (sm *Manager) SetState(telegramID int64, state UserState) {
	sm.Update(telegramID, func(s *Session) {
		s.State = state
	})
}

// ClearState очищает сессию пользователя целиком
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}

func (sm *Manager) lookup(telegramID int64) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	s, ok := sm.sessions[telegramID]
	return s, ok
}

func (sm *Manager) session(telegramID int64) *Session {
	if s, ok := sm.lookup(telegramID); ok {
		return s
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[telegramID]
	if !ok {
		s = &Session{
			ID:    uuid.New(),
			Query: catalog.NewQuery(),
		}
		sm.sessions[telegramID] = s
	}
	return s
}
