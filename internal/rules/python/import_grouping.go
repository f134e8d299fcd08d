package python

import (
	"sort"
	"strings"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/rule"
)

// Import groups, in the order they must appear.
const (
	groupFuture = iota
	groupStdlib
	groupThirdParty
	groupFramework
	groupLocal
	groupGuarded
)

var groupNames = []string{
	"__future__", "standard library", "third-party",
	"framework", "local", "try/except-guarded",
}

// ImportGroupingOptions configures python.import-grouping.
type ImportGroupingOptions struct {
	// FrameworkPrefixes lists top-level modules that form the
	// framework-absolute group.
	FrameworkPrefixes []string `koanf:"framework_prefixes" json:"framework_prefixes" mapstructure:"framework_prefixes"`

	// LocalPrefixes lists absolute module prefixes treated as local
	// imports alongside relative ones.
	LocalPrefixes []string `koanf:"local_prefixes" json:"local_prefixes" mapstructure:"local_prefixes"`
}

// ImportGrouping enforces the six-group import order: __future__,
// standard library, third-party, framework absolute, local, and
// try/except-guarded imports, alphabetized within each group by full
// module path. Byte-wise comparison gives the uppercase-before-lowercase
// tie-break among plain import items.
type ImportGrouping struct {
	baseRule
}

// NewImportGrouping creates the python.import-grouping rule.
func NewImportGrouping() *ImportGrouping {
	return &ImportGrouping{baseRule{
		id:          "python.import-grouping",
		category:    "imports",
		severity:    rule.SeverityError,
		description: "Group imports future/stdlib/third-party/framework/local/guarded, alphabetized.",
	}}
}

// DefaultOptions returns the rule's option defaults.
func (*ImportGrouping) DefaultOptions() any {
	return &ImportGroupingOptions{FrameworkPrefixes: []string{"django"}}
}

// Matches selects the module root, where the top-level import sequence
// lives.
func (*ImportGrouping) Matches(n *ast.Node) bool {
	return n.Kind == ast.KindModule
}

// Check walks the top-level imports in document order and flags every
// statement that breaks group order or in-group alphabetization.
func (r *ImportGrouping) Check(n *ast.Node, rc *rule.Context) []rule.Violation {
	opts, _ := rc.Options.(*ImportGroupingOptions)
	if opts == nil {
		opts = &ImportGroupingOptions{FrameworkPrefixes: []string{"django"}}
	}

	imports := topLevelImports(n)
	if len(imports) < 2 {
		return nil
	}

	var violations []rule.Violation

	prevGroup, prevKey := -1, ""

	for _, imp := range imports {
		group := classify(imp, opts)
		key := imp.Attr("module")

		switch {
		case group < prevGroup:
			violations = append(violations, rule.Violation{
				RuleID:   r.id,
				Path:     rc.Path,
				Span:     imp.Span,
				Severity: r.severity,
				Message: "import of '" + key + "' (" + groupNames[group] +
					") appears after " + groupNames[prevGroup] + " imports",
			})
		// Guarded imports keep their written order: the try/except pair
		// encodes a fallback, not an alphabetical list.
		case group == prevGroup && group != groupGuarded && key < prevKey:
			violations = append(violations, rule.Violation{
				RuleID:   r.id,
				Path:     rc.Path,
				Span:     imp.Span,
				Severity: r.severity,
				Message:  "import of '" + key + "' is not alphabetized within its group",
			})
		default:
			prevGroup, prevKey = group, key
		}
	}

	if len(violations) == 0 {
		return nil
	}

	if edit, ok := r.regenerate(imports, opts, rc); ok {
		violations[0].Edit = edit
	}

	return violations
}

// topLevelImports returns the module's direct import children.
func topLevelImports(n *ast.Node) []*ast.Node {
	imports := make([]*ast.Node, 0, len(n.Children))

	for _, child := range n.Children {
		if child.Kind == ast.KindImport {
			imports = append(imports, child)
		}
	}

	return imports
}

func classify(imp *ast.Node, opts *ImportGroupingOptions) int {
	if imp.Attr("guarded") == "true" {
		return groupGuarded
	}

	module := imp.Attr("module")
	if module == "__future__" {
		return groupFuture
	}

	if imp.Attr("relative") == "true" {
		return groupLocal
	}

	top := module
	if i := strings.Index(module, "."); i >= 0 {
		top = module[:i]
	}

	for _, p := range opts.LocalPrefixes {
		if top == p {
			return groupLocal
		}
	}

	for _, p := range opts.FrameworkPrefixes {
		if top == p {
			return groupFramework
		}
	}

	if stdlibModules[top] {
		return groupStdlib
	}

	return groupThirdParty
}

// regenerate rewrites the import region in group order. It refuses when
// the region contains anything but plain unguarded imports separated by
// whitespace — comments and try/except blocks have no unambiguous new
// position, so those regions are flagged but left alone.
func (r *ImportGrouping) regenerate(
	imports []*ast.Node,
	opts *ImportGroupingOptions,
	rc *rule.Context,
) (*rule.Edit, bool) {
	movable := make([]*ast.Node, 0, len(imports))

	for _, imp := range imports {
		if imp.Attr("guarded") == "true" {
			continue
		}

		if imp.Attr("has-comment") == "true" {
			return nil, false
		}

		movable = append(movable, imp)
	}

	if len(movable) < 2 {
		return nil, false
	}

	region := ast.Span{Start: movable[0].Span.Start, End: movable[len(movable)-1].Span.End}

	// Gaps between consecutive imports must be pure whitespace.
	for i := 1; i < len(movable); i++ {
		gap := rc.Text(ast.Span{Start: movable[i-1].Span.End, End: movable[i].Span.Start})
		if strings.TrimSpace(gap) != "" {
			return nil, false
		}
	}

	sorted := make([]*ast.Node, len(movable))
	copy(sorted, movable)
	sort.SliceStable(sorted, func(i, j int) bool {
		gi, gj := classify(sorted[i], opts), classify(sorted[j], opts)
		if gi != gj {
			return gi < gj
		}

		return sorted[i].Attr("module") < sorted[j].Attr("module")
	})

	var b strings.Builder

	prevGroup := -1
	for i, imp := range sorted {
		group := classify(imp, opts)

		if i > 0 {
			if group != prevGroup {
				b.WriteString("\n\n")
			} else {
				b.WriteString("\n")
			}
		}

		b.WriteString(rc.Text(imp.Span))
		prevGroup = group
	}

	return &rule.Edit{Span: region, NewText: b.String()}, true
}
