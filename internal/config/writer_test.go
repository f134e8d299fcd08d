package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internalconfig "github.com/styleguard/styleguard/internal/config"
	"github.com/styleguard/styleguard/pkg/config"
)

var _ = Describe("Writer", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("writes the project config with owner-only permissions", func() {
		w := internalconfig.NewWriterWithDir(dir)

		path, err := w.WriteProject(config.Default(), false)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, internalconfig.ProjectConfigFile)))

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(internalconfig.ConfigFileMode)))

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("[global]"))
		Expect(string(content)).To(ContainSubstring("fix_iterations = 10"))
	})

	It("refuses to overwrite an existing config", func() {
		w := internalconfig.NewWriterWithDir(dir)

		_, err := w.WriteProject(config.Default(), false)
		Expect(err).NotTo(HaveOccurred())

		_, err = w.WriteProject(config.Default(), false)
		Expect(err).To(MatchError(internalconfig.ErrConfigExists))
	})

	It("overwrites when forced", func() {
		w := internalconfig.NewWriterWithDir(dir)

		_, err := w.WriteProject(config.Default(), false)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.Default()
		cfg.Global.Workers = 4

		path, err := w.WriteProject(cfg, true)
		Expect(err).NotTo(HaveOccurred())

		content, err := os.ReadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(content)).To(ContainSubstring("workers = 4"))
	})
})
