package ppt_test

import (
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pptree/pkg/ppt"
)

var _ = Describe("Parser strategies", func() {
	Describe("NewParser", func() {
		It("selects the blank-line grammar by default", func() {
			p, err := ppt.NewParser("")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeAssignableToTypeOf(&ppt.BlankLineParser{}))
		})

		It("selects the continuation grammar", func() {
			p, err := ppt.NewParser(ppt.GrammarContinuation)
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeAssignableToTypeOf(&ppt.ContinuationParser{}))
		})

		It("rejects unknown grammars", func() {
			_, err := ppt.NewParser("yaml")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unknown grammar"))
		})
	})

	Describe("ParseGrammar", func() {
		It("is case insensitive", func() {
			g, err := ppt.ParseGrammar(" Continuation ")
			Expect(err).NotTo(HaveOccurred())
			Expect(g).To(Equal(ppt.GrammarContinuation))
		})

		It("lists the default grammar first", func() {
			Expect(ppt.Grammars()[0]).To(Equal(ppt.GrammarBlankLine))
		})
	})

	Describe("converting between grammars", func() {
		It("keeps chosen and rejected content", func() {
			legacy, err := ppt.NewParser(ppt.GrammarContinuation)
			Expect(err).NotTo(HaveOccurred())

			pt, err := legacy.Loads("Hi\nHello\n+Hey\n-Bye")
			Expect(err).NotTo(HaveOccurred())

			converted, err := ppt.Loads(ppt.Dumps(pt))
			Expect(err).NotTo(HaveOccurred())
			Expect(converted.Equal(pt)).To(BeTrue())
		})
	})

	Describe("Load", func() {
		It("reads from a reader with the default grammar", func() {
			pt, err := ppt.Load(strings.NewReader("Hi\n\n\nHello!\n"), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(pt).To(HaveLen(2))
		})

		It("wraps read failures", func() {
			_, err := ppt.Load(failingReader{}, nil)
			Expect(err).To(MatchError(ContainSubstring("reading ppt input")))
		})
	})

	Describe("RoleAt", func() {
		It("alternates by position", func() {
			Expect(ppt.RoleAt(0)).To(Equal(ppt.RoleUser))
			Expect(ppt.RoleAt(1)).To(Equal(ppt.RoleAssistant))
			Expect(ppt.RoleAt(10)).To(Equal(ppt.RoleUser))
		})
	})

	Describe("PT", func() {
		It("lists annotated turns", func() {
			pt := ppt.PT{
				{Main: "a"},
				{Main: "b", Rejecteds: []string{"x"}},
				{Main: "c", Chosens: []string{"y"}},
				{Main: "d", Rejecteds: []string{"z"}},
			}
			Expect(pt.Annotated()).To(Equal([]int{1, 3}))
		})

		It("treats nil and empty alternatives as equal", func() {
			a := ppt.PT{{Main: "a", Chosens: []string{}}}
			b := ppt.PT{{Main: "a"}}
			Expect(a.Equal(b)).To(BeTrue())
		})
	})
})

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}
