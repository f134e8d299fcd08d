package schema_test

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/styleguard/styleguard/internal/schema"
)

var _ = Describe("Generate", func() {
	It("titles the schema and pins the draft version", func() {
		s := schema.Generate()
		Expect(s.Title).To(Equal("styleguard configuration"))
		Expect(s.Version).To(Equal("https://json-schema.org/draft/2020-12/schema"))
	})

	It("exposes the config sections as top-level properties", func() {
		data, err := schema.GenerateJSON(false)
		Expect(err).NotTo(HaveOccurred())

		var doc map[string]any
		Expect(json.Unmarshal(data, &doc)).To(Succeed())

		props, ok := doc["properties"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(props).To(HaveKey("global"))
		Expect(props).To(HaveKey("rules"))
	})
})

var _ = Describe("GenerateJSON", func() {
	It("pretty-prints when indent is requested", func() {
		indented, err := schema.GenerateJSON(true)
		Expect(err).NotTo(HaveOccurred())
		Expect(strings.HasSuffix(string(indented), "\n")).To(BeTrue())
		Expect(string(indented)).To(ContainSubstring("\n  "))

		compact, err := schema.GenerateJSON(false)
		Expect(err).NotTo(HaveOccurred())
		Expect(len(compact)).To(BeNumerically("<", len(indented)))
	})
})
