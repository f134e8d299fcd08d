package color_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/styleguard/styleguard/internal/color"
)

var _ = Describe("Profile", func() {
	BeforeEach(func() {
		GinkgoT().Setenv("CLICOLOR", "")
		GinkgoT().Setenv("TERM", "xterm-256color")

		// NO_COLOR honors mere presence, so it has to be unset, not
		// emptied.
		if v, ok := os.LookupEnv("NO_COLOR"); ok {
			DeferCleanup(os.Setenv, "NO_COLOR", v)
			Expect(os.Unsetenv("NO_COLOR")).To(Succeed())
		}
	})

	It("enables color by default", func() {
		Expect(color.Profile(false)).To(BeTrue())
	})

	It("honors the no-color flag", func() {
		Expect(color.Profile(true)).To(BeFalse())
	})

	It("honors NO_COLOR regardless of value", func() {
		GinkgoT().Setenv("NO_COLOR", "")
		Expect(color.Profile(false)).To(BeFalse())
	})

	It("honors CLICOLOR=0", func() {
		GinkgoT().Setenv("CLICOLOR", "0")
		Expect(color.Profile(false)).To(BeFalse())
	})

	It("honors TERM=dumb", func() {
		GinkgoT().Setenv("TERM", "dumb")
		Expect(color.Profile(false)).To(BeFalse())
	})
})

var _ = Describe("NewTheme", func() {
	It("renders plain text when color is off", func() {
		theme := color.NewTheme(false)
		Expect(theme.Error.Render("boom")).To(Equal("boom"))
	})
})
