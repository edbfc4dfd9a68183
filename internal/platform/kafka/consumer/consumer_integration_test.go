//go:build integration

package consumer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"caseflow/pkg/testutil/containers"
)

type ConsumerSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
}

func TestConsumerSuite(t *testing.T) {
	suite.Run(t, new(ConsumerSuite))
}

func (s *ConsumerSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())
}

type recorder struct {
	mu   sync.Mutex
	msgs []*Message
}

func (r *recorder) Handle(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func (s *ConsumerSuite) TestConsumesAndCommits() {
	const topic = "zgw.notifications.test"
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	rec := &recorder{}
	c, err := New(Config{Brokers: s.broker.Brokers, Group: "caseflow-test", Topics: []string{topic}}, rec,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)
	defer c.Close()
	s.Require().NoError(c.EnsureTopics(ctx, 1, 1))
	s.Require().NoError(c.EnsureTopics(ctx, 1, 1), "existing topics are fine")

	producer, err := kgo.NewClient(kgo.SeedBrokers(s.broker.Brokers...))
	s.Require().NoError(err)
	defer producer.Close()
	for _, body := range []string{`{"kanaal":"zaken"}`, `{"kanaal":"zaken"}`} {
		s.Require().NoError(producer.ProduceSync(ctx, &kgo.Record{
			Topic:   topic,
			Value:   []byte(body),
			Headers: []kgo.RecordHeader{{Key: "X-Request-Id", Value: []byte("req-1")}},
		}).FirstErr())
	}

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	s.Eventually(func() bool { return rec.len() == 2 }, 30*time.Second, 100*time.Millisecond)
	stop()
	s.NoError(<-done)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	s.Equal("req-1", rec.msgs[0].Headers["X-Request-Id"])
	s.Equal(int64(1), rec.msgs[1].Offset)
}
