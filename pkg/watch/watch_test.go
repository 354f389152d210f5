package watch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pptree/pkg/watch"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (r *recorder) handle(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return r.err
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

var _ = Describe("Watcher", func() {
	var (
		dir    string
		target string
		rec    *recorder
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		target = filepath.Join(dir, "dialogue.ppt")
		Expect(os.WriteFile(target, []byte("Hi\n"), 0o600)).To(Succeed())
		rec = &recorder{}
	})

	start := func(paths ...string) {
		w, err := watch.New(watch.Config{Paths: paths, Debounce: 50 * time.Millisecond}, rec.handle)
		Expect(err).NotTo(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()
		DeferCleanup(func() {
			cancel()
			Eventually(done).Should(Receive(BeNil()))
		})

		// Give the watcher time to register its directories.
		time.Sleep(100 * time.Millisecond)
	}

	It("coalesces a burst of writes into one call", func() {
		start(target)

		for i := 0; i < 5; i++ {
			Expect(os.WriteFile(target, []byte("Hi\n\n\nHello!\n"), 0o600)).To(Succeed())
		}

		Eventually(rec.calls).Should(HaveLen(1))
		Consistently(rec.calls, 200*time.Millisecond).Should(HaveLen(1))

		abs, err := filepath.Abs(target)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.calls()[0]).To(Equal(abs))
	})

	It("ignores files that are not watched", func() {
		start(target)

		other := filepath.Join(dir, "other.ppt")
		Expect(os.WriteFile(other, []byte("x\n"), 0o600)).To(Succeed())

		Consistently(rec.calls, 300*time.Millisecond).Should(BeEmpty())
	})

	It("keeps running after a handler error", func() {
		rec.err = errors.New("bad document")
		start(target)

		Expect(os.WriteFile(target, []byte("one\n"), 0o600)).To(Succeed())
		Eventually(rec.calls).Should(HaveLen(1))

		Expect(os.WriteFile(target, []byte("two\n"), 0o600)).To(Succeed())
		Eventually(rec.calls).Should(HaveLen(2))
	})

	Describe("New", func() {
		It("requires paths", func() {
			_, err := watch.New(watch.Config{}, rec.handle)
			Expect(err).To(HaveOccurred())
		})

		It("requires a handler", func() {
			_, err := watch.New(watch.Config{Paths: []string{target}}, nil)
			Expect(err).To(HaveOccurred())
		})
	})
})
