package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/josecarlos19/top-vendas-sub000/internal/model"
	"github.com/josecarlos19/top-vendas-sub000/internal/repository"
)

const (
	reminderInterval  = 24 * time.Hour
	reminderBatchSize = 200
	reminderKeyTTL    = 48 * time.Hour
)

// StartReminderCron runs a daily sweep over overdue installments and
// enqueues one reminder email per customer installment. A Redis SETNX
// key per installment per day keeps multiple instances from double
// sending.
func StartReminderCron(ctx context.Context, rdb *redis.Client, installments repository.InstallmentRepository, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(reminderInterval)
		defer ticker.Stop()

		// first sweep shortly after boot so a restart does not skip a day
		timer := time.NewTimer(1 * time.Minute)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reminder cron shutting down")
				return
			case <-timer.C:
				sweepOverdue(ctx, rdb, installments, dispatcher)
			case <-ticker.C:
				sweepOverdue(ctx, rdb, installments, dispatcher)
			}
		}
	}()
	log.Info().Msg("overdue reminder cron started")
}

func sweepOverdue(ctx context.Context, rdb *redis.Client, installments repository.InstallmentRepository, dispatcher *Dispatcher) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	overdue, err := installments.ListOverdue(ctx, today, reminderBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("failed to list overdue installments")
		return
	}
	if len(overdue) == 0 {
		return
	}

	sent := 0
	for _, inst := range overdue {
		if inst.Sale == nil || inst.Sale.Customer == nil {
			continue
		}
		customer := inst.Sale.Customer
		if customer.Email == nil || *customer.Email == "" {
			continue
		}

		dedupKey := fmt.Sprintf("reminder:%s:%s", inst.ID, today.Format("2006-01-02"))
		ok, err := rdb.SetNX(ctx, dedupKey, 1, reminderKeyTTL).Result()
		if err != nil {
			log.Error().Err(err).Msg("reminder dedup check failed")
			continue
		}
		if !ok {
			continue // already sent today
		}

		payload := EmailPayload{
			To:      *customer.Email,
			Subject: fmt.Sprintf("Payment reminder: installment %d overdue", inst.Number),
			Body:    reminderBody(customer.Name, inst),
		}
		if err := dispatcher.EnqueueEmail(ctx, payload); err != nil {
			log.Error().Err(err).Str("installment_id", inst.ID.String()).Msg("failed to enqueue reminder")
			continue
		}
		sent++
	}
	log.Info().Int("overdue", len(overdue)).Int("enqueued", sent).Msg("overdue reminder sweep done")
}

func reminderBody(name string, inst model.Installment) string {
	return fmt.Sprintf(
		"Hello %s,\n\nInstallment %d of your purchase, for %s, was due on %s and is still pending.\n"+
			"Please get in touch to settle the payment.\n\nThank you.",
		name, inst.Number, inst.Amount.StringFixed(2), inst.DueDate.Format("2006-01-02"),
	)
}
