package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// onceSchedule срабатывает один раз в момент at. После этого Next возвращает нулевое время, и cron больше не запускает задачу.
type onceSchedule struct {
	at time.Time
}

func (s onceSchedule) Next(t time.Time) time.Time {
	if t.Before(s.at) {
		return s.at
	}
	return time.Time{}
}

// Scheduler запускает отложенные и периодические задачи в разрезе чатов.
// На чат держится не больше одной периодической задачи, ее можно отменить через Cancel.
type Scheduler struct {
	cron   *cron.Cron
	logger cron.Logger

	mu        sync.Mutex
	repeating map[int64]cron.EntryID
	once      map[cron.EntryID]int64
}

// New создает планировщик. Задачи не запускаются до вызова Start.
func New(logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	cronLogger := cron.PrintfLogger(logger)

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger)),
		),
		logger:    cronLogger,
		repeating: make(map[int64]cron.EntryID),
		once:      make(map[cron.EntryID]int64),
	}
}

// Start запускает планировщик в отдельной горутине
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик. Контекст завершается, когда отработают запущенные задачи.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// Every запускает job каждые interval. Предыдущая периодическая задача чата удаляется.
// Интервалы меньше секунды округляются до секунды.
func (s *Scheduler) Every(chatID int64, interval time.Duration, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.repeating[chatID]; ok {
		s.cron.Remove(id)
	}

	wrapped := cron.NewChain(cron.SkipIfStillRunning(s.logger)).Then(cron.FuncJob(job))
	s.repeating[chatID] = s.cron.Schedule(cron.Every(interval), wrapped)
}

// After запускает job один раз через delay
func (s *Scheduler) After(chatID int64, delay time.Duration, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var id cron.EntryID
	id = s.cron.Schedule(onceSchedule{at: time.Now().Add(delay)}, cron.FuncJob(func() {
		defer s.removeOnce(&id)
		job()
	}))
	s.once[id] = chatID
}

// removeOnce удаляет отработавшую разовую задачу. Блокировка гарантирует, что id уже записан в After.
func (s *Scheduler) removeOnce(id *cron.EntryID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cron.Remove(*id)
	delete(s.once, *id)
}

// Cancel удаляет периодическую задачу чата. Уже запущенный вызов job не прерывается.
func (s *Scheduler) Cancel(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.repeating[chatID]
	if !ok {
		return false
	}
	s.cron.Remove(id)
	delete(s.repeating, chatID)
	return true
}

// Pending количество запланированных разовых задач чата
func (s *Scheduler) Pending(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.once {
		if c == chatID {
			n++
		}
	}
	return n
}

// Repeating сообщает, есть ли у чата периодическая задача
func (s *Scheduler) Repeating(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.repeating[chatID]
	return ok
}
