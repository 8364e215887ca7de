package generator

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nativebuild/enum2java/internal/model"
)

func TestGenerateOutput(t *testing.T) {
	def := model.NewEnumDefinition("ClassName")
	def.EnumPackage = "some.package"
	def.Entries.Set("E1", model.IntValue(1))
	def.Entries.Set("E2", model.ExprValue("2 << 2"))
	def.Comments.Set("E2", "This is a comment.")
	def.Comments.Set("E1", "This is a multiple line comment that is really long. "+
		"This is a multiple line comment that is really really long.")

	got, err := Generate("path/to/file", def)
	require.NoError(t, err)

	expected := fmt.Sprintf(`
// Copyright %d The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// This file is autogenerated by
//     %s
// From
//     path/to/file

package some.package;

import android.support.annotation.IntDef;

import java.lang.annotation.Retention;
import java.lang.annotation.RetentionPolicy;

@IntDef({
    ClassName.E1, ClassName.E2
})
@Retention(RetentionPolicy.SOURCE)
public @interface ClassName {
  /**
   * This is a multiple line comment that is really long. This is a multiple line comment that is
   * really really long.
   */
  int E1 = 1;
  /**
   * This is a comment.
   */
  int E2 = 2 << 2;
}
`, time.Now().Year(), ScriptName())
	assert.Equal(t, expected, got)
}

func TestGenerateUsesClassNameOverride(t *testing.T) {
	def := model.NewEnumDefinition("EnumName")
	def.ClassNameOverride = "Override"
	def.EnumPackage = "some.package"
	def.Entries.Set("A", model.IntValue(0))

	got, err := Generate("path/to/file", def)
	require.NoError(t, err)
	assert.Contains(t, got, "public @interface Override {")
	assert.Contains(t, got, "    Override.A\n")
	assert.NotContains(t, got, "EnumName")
}

func TestGenerateEmptyDefinitionFails(t *testing.T) {
	def := model.NewEnumDefinition("ClassName")
	def.EnumPackage = "some.package"

	_, err := Generate("path/to/file", def)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNothingToGenerate)
}

func TestGenerateMissingPackageFails(t *testing.T) {
	def := model.NewEnumDefinition("ClassName")
	def.Entries.Set("A", model.IntValue(0))

	_, err := Generate("path/to/file", def)
	require.Error(t, err)
}

func TestGenerateUnresolvedEntryFails(t *testing.T) {
	def := model.NewEnumDefinition("ClassName")
	def.EnumPackage = "some.package"
	def.Entries.Set("A", model.RawValue("1"))

	_, err := Generate("path/to/file", def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "never resolved")
}

func TestWrapIndent(t *testing.T) {
	cases := []struct {
		name   string
		text   string
		width  int
		indent string
		want   []string
	}{
		{
			name:  "fits on one line",
			text:  "one two", width: 20, indent: "  ",
			want: []string{"  one two"},
		},
		{
			name:  "breaks at width",
			text:  "one two three", width: 9, indent: "",
			want: []string{"one two", "three"},
		},
		{
			name:  "indent counts against width",
			text:  "one two three", width: 9, indent: "  ",
			want: []string{"  one two", "  three"},
		},
		{
			name:  "oversized word gets its own line",
			text:  "a gigantic_unbreakable_word b", width: 10, indent: "",
			want: []string{"a", "gigantic_unbreakable_word", "b"},
		},
		{
			name:  "empty text",
			text:  "   ", width: 10, indent: "  ",
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, wrapIndent(tc.text, tc.width, tc.indent))
		})
	}
}

func TestWrapIndentMatchesJavadocWidth(t *testing.T) {
	comment := "This is a multiple line comment that is really long. " +
		"This is a multiple line comment that is really really long."
	lines := wrapIndent(comment, lineWidth, "   * ")
	require.Len(t, lines, 2)
	assert.Equal(t, "   * This is a multiple line comment that is really long. "+
		"This is a multiple line comment that is", lines[0])
	assert.Equal(t, "   * really really long.", lines[1])
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), lineWidth)
	}
}
