package editor_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ridersim/internal/config"
	"github.com/san-kum/ridersim/internal/editor"
	"github.com/san-kum/ridersim/internal/storage"
	"github.com/san-kum/ridersim/internal/track"
)

var _ = Describe("background work", func() {
	var (
		ctx context.Context
		cfg *config.Config
		st  *storage.Store
		e   *editor.Editor
	)

	BeforeEach(func() {
		ctx = context.Background()
		cfg = config.DefaultConfig()
		st = storage.New(GinkgoT().TempDir())
		Expect(st.Init()).To(Succeed())
	})

	JustBeforeEach(func() {
		e = editor.New(cfg, editor.WithStepper(slideStepper{}), editor.WithStore(st))
	})

	backups := func() []storage.Metadata {
		list, err := st.List()
		Expect(err).NotTo(HaveOccurred())
		return list
	}

	Describe("Backup", func() {
		It("needs a store", func() {
			bare := editor.New(cfg)
			Expect(bare.Backup(ctx, true)).To(MatchError(editor.ErrNoStore))
		})

		It("skips empty tracks", func() {
			Expect(e.Backup(ctx, true)).To(Succeed())
			Expect(backups()).To(BeEmpty())
		})

		It("autosaves only edited tracks and only once per state", func() {
			trk, _ := track.Sample("flat")
			e.ChangeTrack(ctx, trk)
			Expect(e.Backup(ctx, false)).To(Succeed())
			Expect(backups()).To(BeEmpty())

			_, err := e.AddLine(ctx, std(0, 40, 30, 40))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Backup(ctx, false)).To(Succeed())
			Expect(e.Backup(ctx, false)).To(Succeed())

			list := backups()
			Expect(list).To(HaveLen(1))
			Expect(list[0].Kind).To(Equal(storage.KindAutosave))
			Expect(list[0].Lines).To(Equal(2))
		})

		It("always writes crash backups", func() {
			trk, _ := track.Sample("bowl")
			e.ChangeTrack(ctx, trk)
			Expect(e.Backup(ctx, true)).To(Succeed())
			list := backups()
			Expect(list).To(HaveLen(1))
			Expect(list[0].Kind).To(Equal(storage.KindCrash))
			Expect(list[0].Checksum).To(Equal(trk.Checksum()))
		})

		It("saves on request", func() {
			trk, _ := track.Sample("ramp")
			e.ChangeTrack(ctx, trk)
			meta, err := e.Save(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(meta.Kind).To(Equal(storage.KindSave))
			Expect(backups()).To(ConsistOf(HaveField("ID", meta.ID)))
		})
	})

	Describe("LoadAsync", func() {
		It("swaps in the loaded track", func() {
			done := e.LoadAsync(ctx, func(context.Context) (*track.Track, error) {
				return track.Sample("ramp")
			})
			Eventually(done).Should(BeClosed())
			Expect(e.Status(ctx).Name).To(Equal("ramp"))
			Expect(e.Loading()).To(BeFalse())
		})

		It("keeps the current track when loading fails", func() {
			_, _ = e.AddLine(ctx, std(0, 0, 10, 0))
			done := e.LoadAsync(ctx, func(context.Context) (*track.Track, error) {
				return nil, errors.New("disk on fire")
			})
			Eventually(done).Should(BeClosed())
			Expect(e.Status(ctx).Lines).To(Equal(1))
			Expect(e.UndoManager().CanUndo()).To(BeTrue())
		})

		It("survives a panicking loader", func() {
			done := e.LoadAsync(ctx, func(context.Context) (*track.Track, error) {
				panic("corrupt file")
			})
			Eventually(done).Should(BeClosed())
			Expect(e.Status(ctx).Name).To(Equal("untitled"))
		})

		It("loads the newest previous track", func() {
			older, _ := track.Sample("flat")
			newer, _ := track.Sample("kicker")
			_, err := st.SaveTrack(ctx, older.Snapshot(), storage.KindSave)
			Expect(err).NotTo(HaveOccurred())
			time.Sleep(5 * time.Millisecond)
			_, err = st.SaveTrack(ctx, newer.Snapshot(), storage.KindAutosave)
			Expect(err).NotTo(HaveOccurred())

			Eventually(e.AutoLoadPrevious(ctx)).Should(BeClosed())
			Expect(e.Status(ctx).Name).To(Equal("kicker"))
		})
	})

	Describe("Run", func() {
		BeforeEach(func() {
			cfg.Editor.AutosaveInterval = 10 * time.Millisecond
		})

		It("autosaves until cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			errc := make(chan error, 1)
			go func() { errc <- e.Run(runCtx) }()

			_, err := e.AddLine(ctx, std(0, 0, 10, 0))
			Expect(err).NotTo(HaveOccurred())
			Eventually(func() int { return len(backups()) }).Should(Equal(1))
			Consistently(func() int { return len(backups()) }, 50*time.Millisecond).Should(Equal(1))

			cancel()
			Eventually(errc).Should(Receive(BeNil()))
		})
	})
})
