package world

import (
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gravity/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestWorldSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "World Suite")
}

var _ = Describe("World", func() {
	var w *World

	BeforeEach(func() {
		w = New(Options{})
		_, err := w.Populate(sunEarth())
		Expect(err).NotTo(HaveOccurred())
	})

	It("starts in the starting state", func() {
		Expect(w.Status()).To(Equal(dynamo.Starting))
		Consistently(w.Running(), 20*time.Millisecond).ShouldNot(BeClosed())
	})

	It("releases waiters in order", func() {
		Expect(w.SetRunning()).To(BeTrue())
		Eventually(w.Running()).Should(BeClosed())
		Expect(w.Stop()).To(BeTrue())
		Eventually(w.Stopped()).Should(BeClosed())
		Expect(w.SetRunning()).To(BeFalse())
		Expect(w.Status()).To(Equal(dynamo.Stopped))
	})

	It("shows readers whole commits only", func() {
		s := w.Snapshot()
		earth := s.Movers[0].Entity

		var wg sync.WaitGroup
		done := make(chan struct{})
		torn := make(chan r3.Vec, 1)
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				for {
					select {
					case <-done:
						return
					default:
					}
					w.Read(func(v *View) {
						b, _ := v.Body(earth)
						// Every commit writes X == Y.
						if b.Position.X != b.Position.Y && b.Position.X != 0 {
							select {
							case torn <- b.Position:
							default:
							}
						}
					})
				}
			}()
		}

		for i := 1; i <= 500; i++ {
			p := r3.Vec{X: float64(i), Y: float64(i)}
			w.Commit([]Update{{Entity: earth, Position: p}}, i%7 == 0)
		}
		close(done)
		wg.Wait()
		Expect(torn).To(BeEmpty())

		w.Read(func(v *View) {
			Expect(v.Trail(earth)).To(HaveLen(4))
		})
	})

	It("serialises camera edits with readers", func() {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					w.Write(func(tx *Txn) { tx.Rotate(1, 0) })
					w.Read(func(v *View) { _ = v.Rotation().Matrix() })
				}
			}()
		}
		wg.Wait()
		w.Read(func(v *View) {
			// 800 steps wrap to 800 mod 256.
			Expect(v.Rotation().Z).To(Equal(uint8(800 % 256)))
		})
	})
})
