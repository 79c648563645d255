// Copyright (c) 2023-2024, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Materializer", func() {
	var (
		root string
		m    *Materializer
	)

	BeforeEach(func() {
		root = filepath.Join(GinkgoT().TempDir(), "project")
		m = NewMaterializer(nil)
	})

	readFile := func(rel string) string {
		c, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		Expect(err).ToNot(HaveOccurred())
		return string(c)
	}

	snapshot := func() map[string]string {
		files := map[string]string{}
		err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			c, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			files[filepath.ToSlash(rel)] = string(c)
			return nil
		})
		Expect(err).ToNot(HaveOccurred())
		return files
	}

	files := FileSet{
		"src/App.jsx":                   {Content: "app"},
		"src/components/Header.jsx":     {Content: "header"},
		"src/redux/slices/authSlice.js": {Content: "auth"},
		"README.md":                     {Content: "readme"},
	}

	Describe("Materialize", func() {
		It("Should create nested directories and write every file", func() {
			Expect(m.Materialize(root, files)).To(Succeed())

			Expect(readFile("src/App.jsx")).To(Equal("app"))
			Expect(readFile("src/components/Header.jsx")).To(Equal("header"))
			Expect(readFile("src/redux/slices/authSlice.js")).To(Equal("auth"))
			Expect(readFile("README.md")).To(Equal("readme"))
		})

		It("Should be idempotent", func() {
			Expect(m.Materialize(root, files)).To(Succeed())
			once := snapshot()

			Expect(m.Materialize(root, files)).To(Succeed())
			Expect(snapshot()).To(Equal(once))
		})

		It("Should truncate existing files", func() {
			Expect(os.MkdirAll(filepath.Join(root, "src"), 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "src", "App.jsx"), []byte("a much longer original body"), 0644)).To(Succeed())

			Expect(m.Materialize(root, files)).To(Succeed())
			Expect(readFile("src/App.jsx")).To(Equal("app"))
		})

		It("Should preserve unrelated files", func() {
			Expect(os.MkdirAll(root, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "vite.config.js"), []byte("vite"), 0644)).To(Succeed())

			Expect(m.Materialize(root, files)).To(Succeed())
			Expect(readFile("vite.config.js")).To(Equal("vite"))
		})

		It("Should only write placeholders when nothing exists at their path", func() {
			Expect(os.MkdirAll(root, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0644)).To(Succeed())

			Expect(m.Materialize(root, FileSet{
				"package.json":       {Content: "// package.json", Placeholder: true},
				"tailwind.config.js": {Content: "// tailwind.config.js", Placeholder: true},
			})).To(Succeed())

			Expect(readFile("package.json")).To(Equal("{}"))
			Expect(readFile("tailwind.config.js")).To(Equal("// tailwind.config.js"))
			Expect(m.ChangedFiles()).To(Equal([]string{"tailwind.config.js"}))
		})

		It("Should fail when a placeholder path cannot be inspected", func() {
			Expect(os.MkdirAll(root, 0755)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "config"), []byte("blocker"), 0644)).To(Succeed())

			err := m.Materialize(root, FileSet{
				"config/settings.json": {Content: "// settings.json", Placeholder: true},
			})

			var ioErr *IOError
			Expect(errors.As(err, &ioErr)).To(BeTrue())
			Expect(ioErr.Path).To(Equal(filepath.Join(root, "config", "settings.json")))
			Expect(err).To(MatchError(ContainSubstring("lstat")))
			Expect(m.ChangedFiles()).To(BeEmpty())
		})

		It("Should leave earlier files in place when a later write fails", func() {
			Expect(os.MkdirAll(root, 0755)).To(Succeed())
			// a regular file where a directory is needed
			Expect(os.WriteFile(filepath.Join(root, "b"), []byte("blocker"), 0644)).To(Succeed())

			err := m.Materialize(root, FileSet{
				"a.txt":   {Content: "first"},
				"b/c.txt": {Content: "second"},
				"d.txt":   {Content: "third"},
			})

			var ioErr *IOError
			Expect(errors.As(err, &ioErr)).To(BeTrue())
			Expect(ioErr.Path).To(Equal(filepath.Join(root, "b", "c.txt")))

			Expect(readFile("a.txt")).To(Equal("first"))
			Expect(filepath.Join(root, "d.txt")).ToNot(BeAnExistingFile())
			Expect(m.ChangedFiles()).To(Equal([]string{"a.txt"}))
		})

		It("Should reject paths outside the root", func() {
			err := m.Materialize(root, FileSet{"../outside.txt": {Content: "bad"}})
			Expect(err).To(MatchError(ContainSubstring("is not in target directory")))
			Expect(filepath.Join(filepath.Dir(root), "outside.txt")).ToNot(BeAnExistingFile())
		})

		It("Should reject paths that share a directory name prefix", func() {
			err := m.Materialize(root, FileSet{"../project-evil/x.txt": {Content: "bad"}})
			Expect(err).To(MatchError(ContainSubstring("is not in target directory")))
		})
	})

	Describe("ChangedFiles", func() {
		It("Should be empty before any write", func() {
			Expect(m.ChangedFiles()).To(BeEmpty())
		})

		It("Should track written files in sorted order using forward slashes", func() {
			Expect(m.Materialize(root, files)).To(Succeed())
			Expect(m.ChangedFiles()).To(Equal([]string{"README.md", "src/App.jsx", "src/components/Header.jsx", "src/redux/slices/authSlice.js"}))
		})

		It("Should reset between runs", func() {
			Expect(m.Materialize(root, files)).To(Succeed())
			Expect(m.Materialize(root, FileSet{"one.txt": {Content: "1"}})).To(Succeed())
			Expect(m.ChangedFiles()).To(Equal([]string{"one.txt"}))
		})
	})

	Describe("Plan", func() {
		It("Should report every file as added for a new root", func() {
			planned, err := m.Plan(root, files)
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(HaveLen(4))
			for _, p := range planned {
				Expect(p.Action).To(Equal(FileActionAdd))
			}

			Expect(root).ToNot(BeAnExistingFile())
		})

		It("Should detect equal, updated and kept files", func() {
			Expect(m.Materialize(root, files)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(root, "README.md"), []byte("changed"), 0644)).To(Succeed())

			planned, err := m.Plan(root, FileSet{
				"README.md":    {Content: "readme"},
				"src/App.jsx":  {Content: "app"},
				"index.html":   {Content: "// index.html", Placeholder: true},
				"src/App.jsx2": {Content: "new"},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(Equal([]PlannedFile{
				{Path: "README.md", Action: FileActionUpdate},
				{Path: "index.html", Action: FileActionAdd},
				{Path: "src/App.jsx", Action: FileActionEqual},
				{Path: "src/App.jsx2", Action: FileActionAdd},
			}))

			Expect(os.WriteFile(filepath.Join(root, "index.html"), []byte("<html/>"), 0644)).To(Succeed())
			planned, err = m.Plan(root, FileSet{"index.html": {Content: "// index.html", Placeholder: true}})
			Expect(err).ToNot(HaveOccurred())
			Expect(planned).To(Equal([]PlannedFile{{Path: "index.html", Action: FileActionKeep}}))
		})
	})

	Describe("containedInDir", func() {
		It("Should match the directory itself", func() {
			Expect(containedInDir("/tmp/foo", "/tmp/foo")).To(BeTrue())
		})

		It("Should match children", func() {
			Expect(containedInDir("/tmp/foo/bar.txt", "/tmp/foo")).To(BeTrue())
		})

		It("Should reject sibling directories with shared prefix", func() {
			Expect(containedInDir("/tmp/foobar/evil.txt", "/tmp/foo")).To(BeFalse())
		})

		It("Should reject parent paths", func() {
			Expect(containedInDir("/tmp/evil.txt", "/tmp/foo")).To(BeFalse())
		})
	})
})
