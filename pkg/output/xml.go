package output

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/assetcfg/pkg/bundle"
	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
)

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	return doc
}

func (r *Renderer) writeXML(doc *etree.Document) error {
	doc.Indent(2)
	if _, err := doc.WriteTo(r.w); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to write XML")
	}
	return nil
}

// planXML is the bundle manifest: one <bundle> per output file listing its
// sources in concatenation order
func planXML(p *bundle.Plan) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("plan")
	root.CreateAttr("public", p.Public)
	root.CreateAttr("wrapper", p.Wrapper)

	for _, b := range p.Bundles {
		el := root.CreateElement("bundle")
		el.CreateAttr("name", b.Name)
		el.CreateAttr("category", string(b.Category))
		el.CreateAttr("categories", strings.Join(bundleCategories(b), " "))
		el.CreateAttr("output", b.Output)
		for i, f := range b.Files {
			file := el.CreateElement("file")
			if b.Modules != nil {
				file.CreateAttr("module", b.Modules[i])
			}
			file.SetText(f)
		}
	}
	for _, m := range p.Unmatched {
		el := root.CreateElement("unmatched")
		el.CreateAttr("category", string(m.Category))
		el.SetText(m.Path)
	}
	for _, f := range p.Uncategorized {
		root.CreateElement("uncategorized").SetText(f)
	}
	return doc
}

func descriptorXML(d *config.Descriptor) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("descriptor")

	sources := root.CreateElement("sources")
	for _, s := range d.Sources() {
		sources.CreateElement("source").SetText(s)
	}

	plugins := root.CreateElement("plugins")
	for _, p := range d.Plugins() {
		el := plugins.CreateElement("plugin")
		el.CreateAttr("name", p.Name)
		if p.Extension != "" {
			el.CreateAttr("extension", p.Extension)
		}
		if p.Category != "" {
			el.CreateAttr("category", string(p.Category))
		}
		for _, path := range p.Paths {
			el.CreateElement("path").SetText(path)
		}
		for _, k := range sortedKeys(p.Options) {
			opt := el.CreateElement("option")
			opt.CreateAttr("key", k)
			opt.SetText(fmt.Sprint(p.Options[k]))
		}
	}

	files := root.CreateElement("files")
	for _, c := range d.Categories() {
		cfg, _ := d.Category(c)
		el := files.CreateElement("category")
		el.CreateAttr("name", string(c))
		for _, rule := range cfg.JoinTo {
			j := el.CreateElement("joinTo")
			j.CreateAttr("bundle", rule.Bundle)
			j.CreateAttr("pattern", rule.Pattern.String())
		}
		if len(cfg.Order.Before) > 0 || len(cfg.Order.After) > 0 {
			order := el.CreateElement("order")
			for _, g := range globStrings(cfg.Order.Before) {
				order.CreateElement("before").SetText(g)
			}
			for _, g := range globStrings(cfg.Order.After) {
				order.CreateElement("after").SetText(g)
			}
		}
	}

	modules := root.CreateElement("modules")
	modules.CreateAttr("wrapper", d.Modules().Wrapper)
	for _, prefix := range d.NameCleaner().Prefixes() {
		modules.CreateElement("nameCleaner").SetText(prefix)
	}

	paths := root.CreateElement("paths")
	paths.CreateAttr("public", d.Paths().Public)
	for _, w := range d.Paths().Watched {
		paths.CreateElement("watched").SetText(w)
	}

	root.CreateElement("patterns").CreateAttr("matchTimeout", d.MatchTimeout().String())

	return doc
}

func checkXML(res CheckResult) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("check")
	root.CreateAttr("valid", fmt.Sprint(res.Valid))

	if !res.Valid {
		el := root.CreateElement("error")
		el.CreateAttr("code", res.Code)
		el.CreateElement("message").SetText(res.Message)
		for _, k := range sortedKeys(res.Details) {
			detail := el.CreateElement("detail")
			detail.CreateAttr("key", k)
			detail.SetText(fmt.Sprint(res.Details[k]))
		}
		return doc
	}

	root.CreateAttr("bundles", fmt.Sprint(res.Bundles))
	for _, s := range res.Sources {
		root.CreateElement("source").SetText(s)
	}
	for _, c := range res.Categories {
		root.CreateElement("category").SetText(c)
	}
	for _, p := range res.Plugins {
		root.CreateElement("plugin").SetText(p)
	}
	return doc
}

func matchesXML(results []MatchResult) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("matches")
	for _, m := range results {
		el := root.CreateElement("match")
		el.CreateAttr("path", m.Path)
		el.CreateAttr("matched", fmt.Sprint(m.Matched))
		if m.Category != "" {
			el.CreateAttr("category", m.Category)
		}
		if m.Bundle != "" {
			el.CreateAttr("bundle", m.Bundle)
		}
		if m.Module != "" {
			el.CreateAttr("module", m.Module)
		}
	}
	return doc
}

func cleanedXML(results []CleanResult) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("names")
	for _, c := range results {
		el := root.CreateElement("name")
		el.CreateAttr("input", c.Input)
		el.CreateAttr("output", c.Output)
	}
	return doc
}

func markdownXML(md string) *etree.Document {
	doc := newXMLDocument()
	doc.CreateElement("markdown").CreateCData(md)
	return doc
}

func errorXML(err error) *etree.Document {
	doc := newXMLDocument()
	el := doc.CreateElement("error")
	el.CreateAttr("code", string(errors.GetErrorCode(err)))
	el.CreateElement("message").SetText(err.Error())
	details := errors.GetErrorDetails(err)
	for _, k := range sortedKeys(details) {
		detail := el.CreateElement("detail")
		detail.CreateAttr("key", k)
		detail.SetText(fmt.Sprint(details[k]))
	}
	return doc
}

func messageXML(msg string) *etree.Document {
	doc := newXMLDocument()
	doc.CreateElement("message").SetText(msg)
	return doc
}

func globStrings(globs []*pattern.Glob) []string {
	out := make([]string, 0, len(globs))
	for _, g := range globs {
		out = append(out, g.String())
	}
	return out
}
