// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежеминутная уборка брошенных
// диалогов и ежедневное закрытие регистрации начавшихся турниров.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"mlhelper.ru/ml-helper-bot/internal/dialog"
	"mlhelper.ru/ml-helper-bot/internal/features/tournament"
)

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron              *cron.Cron
	sessions          *dialog.Store
	tournamentService *tournament.Service
}

// NewScheduler создаёт планировщик задач с московским часовым поясом.
func NewScheduler(sessions *dialog.Store, tournamentService *tournament.Service) *Scheduler {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Не удалось загрузить Europe/Moscow, используем UTC+3")
		loc = time.FixedZone("MSK", 3*60*60)
	}

	return &Scheduler{
		cron:              cron.New(cron.WithLocation(loc)),
		sessions:          sessions,
		tournamentService: tournamentService,
	}
}

// Start запускает все фоновые задачи.
func (s *Scheduler) Start(ctx context.Context) {
	// Уборка истёкших сессий каждую минуту
	s.cron.AddFunc("* * * * *", func() {
		if removed := s.sessions.Sweep(); removed > 0 {
			log.WithField("removed", removed).Debug("[CRON] Истёкшие сессии удалены")
		}
	})

	// Закрытие регистрации начавшихся турниров в 00:05 по Москве
	s.cron.AddFunc("5 0 * * *", func() {
		log.Info("[CRON] Закрытие начавшихся турниров")
		closed, err := s.tournamentService.CloseStarted(ctx, time.Now())
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка закрытия турниров")
			return
		}
		if closed > 0 {
			log.WithField("closed", closed).Info("[CRON] Турниры закрыты")
		}
	})

	s.cron.Start()
	log.Info("Планировщик задач запущен (Europe/Moscow)")
}

// Stop останавливает планировщик.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
