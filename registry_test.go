// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

package todogen

import (
	"errors"
	"testing/fstest"

	"github.com/choria-io/todogen/templates"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	request := func(f Framework, k TemplateKind, name string) Request {
		return Request{Framework: f, Language: LanguageJavaScript, TemplateKind: k, ProjectName: name}
	}

	Describe("Resolve", func() {
		DescribeTable("Supported combinations",
			func(kind TemplateKind, expected []string) {
				d, err := Resolve(request(FrameworkReact, kind, "demo"))
				Expect(err).ToNot(HaveOccurred())
				Expect(d.Framework).To(Equal(FrameworkReact))
				Expect(d.TemplateKind).To(Equal(kind))
				Expect(d.Description).ToNot(BeEmpty())

				plan, err := d.Generate(request(FrameworkReact, kind, "demo"))
				Expect(err).ToNot(HaveOccurred())
				Expect(plan.Files).ToNot(BeEmpty())
				for _, f := range expected {
					Expect(plan.Files).To(HaveKey(f))
				}

				again, err := d.Generate(request(FrameworkReact, kind, "other"))
				Expect(err).ToNot(HaveOccurred())
				Expect(again.Files.Paths()).To(Equal(plan.Files.Paths()))
			},
			Entry("simple", KindSimple, []string{
				"src/components/Header.jsx", "src/components/Footer.jsx", "src/components/AddTodo.jsx", "src/components/TodoList.jsx",
				"src/pages/Home.jsx", "src/pages/Login.jsx", "src/pages/Register.jsx", "src/routes/ProtectedRoute.jsx",
				"src/App.jsx", "src/App.css",
			}),
			Entry("hooks", KindHooks, []string{"src/useTodos.js", "src/App.jsx"}),
			Entry("redux", KindRedux, []string{
				"src/components/Button.jsx", "src/components/Navbar.jsx", "src/pages/Todo.jsx", "src/pages/NotFound.jsx",
				"src/redux/store.js", "src/redux/slices/authSlice.js", "src/redux/slices/todoSlice.js",
				"src/services/authService.js", "src/utils/auth.js", "package.json", "vite.config.ts",
			}),
		)

		DescribeTable("Unsupported combinations",
			func(f Framework, k TemplateKind) {
				d, err := Resolve(request(f, k, "x"))
				Expect(d).To(BeNil())

				var nse *NotSupportedError
				Expect(errors.As(err, &nse)).To(BeTrue())
				Expect(nse.Framework).To(Equal(f))
				Expect(nse.TemplateKind).To(Equal(k))
			},
			Entry("vue simple", FrameworkVue, KindSimple),
			Entry("vue redux", FrameworkVue, KindRedux),
			Entry("vanilla simple", FrameworkVanilla, KindSimple),
			Entry("vanilla hooks", FrameworkVanilla, KindHooks),
			Entry("react unknown kind", FrameworkReact, TemplateKind("mobx")),
		)

		DescribeTable("Validation errors",
			func(req Request, field string) {
				_, err := Resolve(req)

				var ve *ValidationError
				Expect(errors.As(err, &ve)).To(BeTrue())
				Expect(ve.Field).To(Equal(field))
			},
			Entry("empty name", request(FrameworkReact, KindSimple, ""), "name"),
			Entry("blank name", request(FrameworkReact, KindSimple, "   "), "name"),
			Entry("unknown framework", request(Framework("angular"), KindSimple, "demo"), "framework"),
			Entry("unknown language", Request{Framework: FrameworkReact, Language: "rust", TemplateKind: KindSimple, ProjectName: "demo"}, "language"),
			Entry("missing kind", request(FrameworkReact, "", "demo"), "template"),
		)
	})

	Describe("Register", func() {
		It("Should panic on duplicate entries", func() {
			r := NewRegistry()
			r.Register(MustTemplateDescriptor(FrameworkReact, KindSimple))
			Expect(func() { r.Register(MustTemplateDescriptor(FrameworkReact, KindSimple)) }).To(PanicWith(ContainSubstring("duplicate template react/simple")))
		})

		It("Should panic on descriptors without generators", func() {
			Expect(func() { NewRegistry().Register(&Descriptor{Framework: FrameworkVue, TemplateKind: KindSimple}) }).To(Panic())
		})

		It("Should resolve custom templates", func() {
			t, err := templates.Open(fstest.MapFS{
				"vue/simple/template.yaml":     {Data: []byte("description: vue todo\nscaffold_template: vue\n")},
				"vue/simple/files/src/App.vue": {Data: []byte("<h1>[[ .ProjectName ]]</h1>")},
			}, "vue/simple")
			Expect(err).ToNot(HaveOccurred())

			r := NewRegistry()
			r.Register(TemplateDescriptor(FrameworkVue, KindSimple, t))

			d, err := r.Resolve(request(FrameworkVue, KindSimple, "demo"))
			Expect(err).ToNot(HaveOccurred())

			plan, err := d.Generate(request(FrameworkVue, KindSimple, "demo"))
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.ScaffoldTemplate).To(Equal("vue"))
			Expect(plan.Files).To(Equal(FileSet{"src/App.vue": {Content: "<h1>demo</h1>"}}))
			Expect(plan.Dependencies).To(BeEmpty())
		})

		It("Should reject placeholders that collide with payload files", func() {
			t, err := templates.Open(fstest.MapFS{
				"react/simple/template.yaml":     {Data: []byte("placeholders: [src/App.jsx]\n")},
				"react/simple/files/src/App.jsx": {Data: []byte("app")},
			}, "react/simple")
			Expect(err).ToNot(HaveOccurred())

			_, err = TemplateDescriptor(FrameworkReact, KindSimple, t).Generate(request(FrameworkReact, KindSimple, "demo"))
			Expect(err).To(MatchError(ContainSubstring("is also a payload file")))
		})
	})

	Describe("Kinds", func() {
		It("Should list kinds in prompt order", func() {
			Expect(DefaultRegistry.Kinds(FrameworkReact)).To(Equal([]TemplateKind{KindSimple, KindRedux, KindHooks}))
			Expect(DefaultRegistry.Kinds(FrameworkVue)).To(BeEmpty())
		})
	})

	Describe("Descriptors", func() {
		It("Should list every descriptor sorted", func() {
			var keys []string
			for _, d := range DefaultRegistry.Descriptors() {
				keys = append(keys, string(d.Framework)+"/"+string(d.TemplateKind))
			}
			Expect(keys).To(Equal([]string{"react/hooks", "react/redux", "react/simple"}))
		})
	})

	Describe("Redux placeholders", func() {
		It("Should mark configuration stubs as placeholders", func() {
			d, err := Resolve(request(FrameworkReact, KindRedux, "shop"))
			Expect(err).ToNot(HaveOccurred())

			plan, err := d.Generate(request(FrameworkReact, KindRedux, "shop"))
			Expect(err).ToNot(HaveOccurred())
			Expect(plan.Files["package.json"]).To(Equal(File{Content: "// package.json\n", Placeholder: true}))
			Expect(plan.Files["src/redux/store.js"].Placeholder).To(BeFalse())
			Expect(plan.Files["src/utils/constants.js"].Content).To(ContainSubstring("APP_NAME = 'shop'"))
		})
	})
})
