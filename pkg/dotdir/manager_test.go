package dotdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forkline/forkline/pkg/dotdir"
)

var _ = Describe("dotdir", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-test-*")
		Expect(err).NotTo(HaveOccurred())

		// Resolve symlinks so paths match filepath.Abs results
		// (e.g. on macOS /var -> /private/var).
		tmpDir, err = filepath.EvalSymlinks(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	// chdir moves into dir for the duration of the current spec.
	chdir := func(dir string) {
		origDir, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { _ = os.Chdir(origDir) })
	}

	Describe("Target", func() {
		It("creates the override directory if it doesn't exist", func() {
			dir := filepath.Join(tmpDir, "newdir")
			result, err := m.Target(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(dir))

			info, err := os.Stat(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
		})

		It("prefers the override over a local .forkline dir", func() {
			Expect(os.Mkdir(filepath.Join(tmpDir, ".forkline"), 0o755)).To(Succeed())
			chdir(tmpDir)

			overrideDir := filepath.Join(tmpDir, "override")
			result, err := m.Target(overrideDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(overrideDir))
		})

		It("uses the local .forkline dir when no override is provided", func() {
			local := filepath.Join(tmpDir, ".forkline")
			Expect(os.Mkdir(local, 0o755)).To(Succeed())
			chdir(tmpDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(local))
		})

		It("falls back to creating ~/.forkline", func() {
			emptyDir := filepath.Join(tmpDir, "empty")
			Expect(os.Mkdir(emptyDir, 0o755)).To(Succeed())
			chdir(emptyDir)
			GinkgoT().Setenv("HOME", emptyDir)

			result, err := m.Target("")
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(filepath.Join(emptyDir, ".forkline")))
			Expect(filepath.Join(emptyDir, ".forkline")).To(BeADirectory())
		})
	})

	Describe("chat state", func() {
		It("returns nil when no chat state exists", func() {
			state, err := m.LoadChatState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("round-trips a chat state", func() {
			Expect(m.SaveChatState(&dotdir.ChatState{SessionID: 42, Title: "lunch"}, tmpDir)).To(Succeed())

			state, err := m.LoadChatState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state.SessionID).To(Equal(int64(42)))
			Expect(state.Title).To(Equal("lunch"))
		})

		It("writes the file with owner-only permissions", func() {
			Expect(m.SaveChatState(&dotdir.ChatState{SessionID: 1}, tmpDir)).To(Succeed())

			info, err := os.Stat(filepath.Join(tmpDir, "chat.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
		})

		It("rejects a nil state", func() {
			Expect(m.SaveChatState(nil, tmpDir)).To(MatchError(ContainSubstring("nil chat state")))
		})

		It("returns an error for invalid JSON", func() {
			Expect(os.WriteFile(filepath.Join(tmpDir, "chat.json"), []byte("not json"), 0o600)).To(Succeed())

			state, err := m.LoadChatState(tmpDir)
			Expect(err).To(HaveOccurred())
			Expect(state).To(BeNil())
		})

		It("clears the chat state and tolerates a missing file", func() {
			Expect(m.SaveChatState(&dotdir.ChatState{SessionID: 3}, tmpDir)).To(Succeed())
			Expect(m.ClearChatState(tmpDir)).To(Succeed())
			Expect(m.ClearChatState(tmpDir)).To(Succeed())

			state, err := m.LoadChatState(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(state).To(BeNil())
		})
	})
})
