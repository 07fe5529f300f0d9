package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/nao1215/foro/pkg/httpclient"
)

// Publisher はイベントを外部へ通知する。
// Publishは呼び出し元のリクエストを失敗させない。送信失敗はログにのみ記録する。
type Publisher interface {
	Publish(ctx context.Context, e *Event)
	// Close は送信中のイベントの完了を待つ。Close後のPublishは送信しない。
	Close()
}

// eventsPath はイベント受信APIのパス。
const eventsPath = "/api/v1/events"

// HTTPPublisher はイベントをHTTPでイベントストアにPOSTする。
// 送信はリクエストとは別のgoroutineで行う。Close後のイベントは破棄する。
// 送信のタイムアウトはclientのタイムアウトに従う。
type HTTPPublisher struct {
	client *httpclient.Client
	logger *zap.Logger
	wg     sync.WaitGroup

	// mu はclosedの確認とwg.Addを、Closeとの間で不可分にする。
	mu     sync.Mutex
	closed bool
}

// NewHTTPPublisher は新しいHTTPPublisherを生成する。
func NewHTTPPublisher(client *httpclient.Client, logger *zap.Logger) *HTTPPublisher {
	return &HTTPPublisher{client: client, logger: logger}
}

// Publish はイベントを非同期に送信する。
// 操作したユーザー名はX-User-IDヘッダーで伝播する。
func (p *HTTPPublisher) Publish(ctx context.Context, e *Event) {
	ctx = httpclient.WithUserID(context.WithoutCancel(ctx), e.Actor)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn("クローズ後のイベントを破棄しました",
			zap.String("event_id", e.ID),
			zap.String("event_type", string(e.EventType)),
		)
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()

		if err := p.client.PostJSON(ctx, eventsPath, e, nil); err != nil {
			p.logger.Warn("イベントの送信に失敗しました",
				zap.String("event_id", e.ID),
				zap.String("event_type", string(e.EventType)),
				zap.Error(err),
			)
			return
		}
		p.logger.Debug("イベントを送信しました",
			zap.String("event_id", e.ID),
			zap.String("event_type", string(e.EventType)),
		)
	}()
}

// Close は以降のイベントを受け付けなくし、送信中のイベントの完了を待つ。
// 複数回呼び出してもよい。
func (p *HTTPPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

// LogPublisher はイベントをDEBUGログに出力するだけのPublisher。
// イベントストアが設定されていない場合に使用する。
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher は新しいLogPublisherを生成する。
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish はイベントをログに出力する。
func (p *LogPublisher) Publish(_ context.Context, e *Event) {
	p.logger.Debug("イベント",
		zap.String("event_id", e.ID),
		zap.String("event_type", string(e.EventType)),
		zap.String("aggregate_id", e.AggregateID),
		zap.String("actor", e.Actor),
	)
}

// Close は何もしない。
func (p *LogPublisher) Close() {}
