package summarizer

import (
	"context"
	"errors"
	"sync"
	"time"

	"review-digest/config"
)

// ErrQuotaExceeded is returned for calls refused by the daily request cap.
var ErrQuotaExceeded = errors.New("daily summary quota exceeded")

// QuotaLimiter 는 요약용 LLM 호출에 대한 분당/일일 한도를 관리한다.
// 인메모리로 동작하며 프로세스가 재시작되면 카운터가 초기화된다.
type QuotaLimiter struct {
	mu sync.Mutex

	dailyLimit int
	usedToday  int
	dayKey     string

	interval time.Duration
	lastCall time.Time

	now func() time.Time
}

// NewQuotaLimiter 는 summary_quota 설정으로 limiter 를 만든다.
// 설정 값이 0 이하인 경우에는 해당 방향의 제한을 두지 않는다.
func NewQuotaLimiter(q config.SummaryQuotaConfig) *QuotaLimiter {
	var interval time.Duration
	if q.RequestsPerMinute > 0 {
		interval = time.Minute / time.Duration(q.RequestsPerMinute)
	}
	return &QuotaLimiter{
		dailyLimit: max(q.RequestsPerDay, 0),
		interval:   interval,
		now:        time.Now,
	}
}

// Wait 는 요약 호출 전에 분당/일일 한도를 적용한다.
// - 일일 한도를 초과한 경우: ErrQuotaExceeded 를 반환하고 호출자는 LLM 호출을 스킵해야 한다.
// - 컨텍스트가 취소되면 ctx.Err() 를 반환한다.
func (l *QuotaLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	for {
		l.mu.Lock()

		now := l.now().UTC()
		todayKey := now.Format("2006-01-02")
		if l.dayKey != todayKey {
			l.dayKey = todayKey
			l.usedToday = 0
		}

		if l.dailyLimit > 0 && l.usedToday >= l.dailyLimit {
			l.mu.Unlock()
			return ErrQuotaExceeded
		}

		var delay time.Duration
		if l.interval > 0 && !l.lastCall.IsZero() {
			delay = l.lastCall.Add(l.interval).Sub(now)
		}

		if delay <= 0 {
			l.usedToday++
			l.lastCall = now
			l.mu.Unlock()
			return nil
		}

		// 락을 풀고 대기한 뒤 상태를 다시 평가한다.
		l.mu.Unlock()
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
