package events

import (
	"bytes"
	"context"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("producer", Ordered, func() {
	Context("write", func() {
		It("writes successfully", func() {
			w := newTestWriter()
			kp := NewEventProducer(w, WithOutputTopic("erbench.events.test"))

			msg := []byte("msg1")
			err := kp.Write(context.TODO(), JobStatusMessageKind, bytes.NewReader(msg))
			Expect(err).To(BeNil())

			msg = []byte("msg2")
			err = kp.Write(context.TODO(), JobStatusMessageKind, bytes.NewReader(msg))
			Expect(err).To(BeNil())

			Eventually(w.Count).Should(Equal(2))

			events := w.Events()
			Expect(events[0].Context.GetType()).To(Equal(JobStatusMessageKind))
			Expect(events[0].Context.GetSource()).To(Equal("erbench.manager"))
			Expect(events[0].Data()).To(Equal([]byte("msg1")))

			kp.Close()
		})

		It("never blocks the caller on a slow writer", func() {
			w := newBlockingWriter()
			kp := NewEventProducer(w)

			err := kp.Write(context.TODO(), JobStatusMessageKind, bytes.NewReader([]byte("msg1")))
			Expect(err).To(BeNil())
			// the consumer is now stuck inside the writer
			Eventually(w.Started).Should(Equal(1))

			// further writes must return immediately anyway
			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				Expect(kp.Write(context.TODO(), JobStatusMessageKind, bytes.NewReader([]byte("msg2")))).To(BeNil())
				Expect(kp.Write(context.TODO(), JobStatusMessageKind, bytes.NewReader([]byte("msg3")))).To(BeNil())
			}()
			Eventually(done).Should(BeClosed())

			w.Release()
			Eventually(w.Count).Should(Equal(3))

			kp.Close()
		})
	})
})

type blockingWriter struct {
	lock    sync.Mutex
	started int
	count   int
	release chan struct{}
}

func newBlockingWriter() *blockingWriter {
	return &blockingWriter{release: make(chan struct{})}
}

func (b *blockingWriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	b.lock.Lock()
	b.started++
	b.lock.Unlock()

	<-b.release

	b.lock.Lock()
	b.count++
	b.lock.Unlock()
	return nil
}

func (b *blockingWriter) Close(_ context.Context) error {
	return nil
}

func (b *blockingWriter) Release() {
	close(b.release)
}

func (b *blockingWriter) Started() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.started
}

func (b *blockingWriter) Count() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.count
}

type testwriter struct {
	lock     sync.Mutex
	messages []cloudevents.Event
}

func newTestWriter() *testwriter {
	return &testwriter{messages: []cloudevents.Event{}}
}

func (t *testwriter) Write(ctx context.Context, topic string, e cloudevents.Event) error {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.messages = append(t.messages, e)
	return nil
}

func (t *testwriter) Close(_ context.Context) error {
	return nil
}

func (t *testwriter) Count() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.messages)
}

func (t *testwriter) Events() []cloudevents.Event {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]cloudevents.Event{}, t.messages...)
}
