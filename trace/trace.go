package trace

import (
	"context"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// 컨텍스트에 저장되는 키 타입은 외부에서 직접 사용하지 못하게 unexported로 둔다.
type ctxKey string

const ctxKeyRun ctxKey = "run_info"

// runInfo 는 한 번의 파이프라인 실행에 대한 트레이싱 정보를 담는다.
// - RunID: 실행 단위로 고유
// - spanSeq: 동일 RunID 내에서 외부 호출마다 1,2,3,... 순차 증가
type runInfo struct {
	RunID   string
	spanSeq int64
}

// GenerateID 는 실행/요청 ID 로 사용할 랜덤 ID를 생성한다.
func GenerateID() string {
	return uuid.NewString()
}

// WithRun 은 RunID 를 저장한 새 컨텍스트를 반환한다.
func WithRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ctxKeyRun, &runInfo{RunID: runID})
}

func infoFromContext(ctx context.Context) *runInfo {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyRun).(*runInfo)
	return v
}

// RunIDFromContext 는 컨텍스트에서 RunID 를 조회한다. 없으면 빈 문자열.
func RunIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RunID
}

// NextSpanID 는 spanSeq 를 1 증가시키고 (runID, spanID) 를 반환한다.
// 실행 컨텍스트 밖에서 호출되면 새 ID 와 span "1" 을 돌려준다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		return GenerateID(), "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	return info.RunID, strconv.FormatInt(val, 10)
}
