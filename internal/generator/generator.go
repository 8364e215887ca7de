// Package generator renders finalized enum definitions into Java @IntDef
// annotation source files. The output is a pure function of the
// definition, the source path and the current year.
package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/nativebuild/enum2java/internal/model"
	"github.com/nativebuild/enum2java/internal/types"
)

//go:embed *.tpl
var templates embed.FS

var javaFile = template.Must(template.ParseFS(templates, "*.tpl"))

// ErrNothingToGenerate means generation was requested for a definition
// without entries.
var ErrNothingToGenerate = errors.New("enum has no entries to generate")

// fileData is the top-level struct passed to the template.
type fileData struct {
	Year        int
	ScriptName  string
	SourcePath  string
	Package     string
	IntDef      string
	ClassName   string
	EnumEntries string
}

// ScriptName returns the generator name stamped into the autogeneration
// notice of every output file.
func ScriptName() string {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return types.Application
	}
	return filepath.Base(os.Args[0])
}

// Generate renders the complete Java source for one finalized
// definition. Entry declaration order dictates both the @IntDef list and
// the constant order.
func Generate(sourcePath string, def *model.EnumDefinition) (string, error) {
	if def.Entries.Len() == 0 {
		return "", fmt.Errorf("%w: %s", ErrNothingToGenerate, def.ClassName())
	}
	if def.EnumPackage == "" {
		return "", fmt.Errorf("enum %s: no Java package defined", def.ClassName())
	}

	var entryLines []string
	var names []string
	for pair := def.Entries.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.Kind == model.ValueRaw {
			return "", fmt.Errorf("enum %s: entry %s was never resolved", def.ClassName(), pair.Key)
		}
		if comment, ok := def.Comments.Get(pair.Key); ok {
			entryLines = append(entryLines, "  /**\n"+
				strings.Join(wrapIndent(comment, lineWidth, "   * "), "\n")+
				"\n   */")
		}
		entryLines = append(entryLines, fmt.Sprintf("  int %s = %s;", pair.Key, pair.Value))
		names = append(names, def.ClassName()+"."+pair.Key)
	}

	data := fileData{
		Year:        time.Now().Year(),
		ScriptName:  ScriptName(),
		SourcePath:  sourcePath,
		Package:     def.EnumPackage,
		IntDef:      strings.Join(wrapIndent(strings.Join(names, ", "), lineWidth, "    "), "\n"),
		ClassName:   def.ClassName(),
		EnumEntries: strings.Join(entryLines, "\n"),
	}

	var buf bytes.Buffer
	if err := javaFile.ExecuteTemplate(&buf, "javafile.tpl", data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", def.ClassName(), err)
	}
	return buf.String(), nil
}
