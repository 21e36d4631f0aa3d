package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/types"
)

func TestNormalizeStyle(t *testing.T) {
	tests := []struct {
		name        string
		variant     string
		theme       string
		wantVariant string
		wantTheme   string
	}{
		{"known values pass through", "modern", "dark", "modern", "dark"},
		{"unknown variant falls back", "vaporwave", "light", string(types.DefaultVariant), "light"},
		{"empty variant falls back", "", "", string(types.DefaultVariant), "light"},
		{"unknown theme reads as light", "classic", "sepia", "classic", "light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			variant, theme := normalizeStyle(tt.variant, tt.theme)
			assert.Equal(t, tt.wantVariant, variant)
			assert.Equal(t, tt.wantTheme, theme)
		})
	}
}

func TestResolvePosting_MutuallyExclusive(t *testing.T) {
	_, err := resolvePosting(context.Background(), &GenerateRequest{
		JobPosting: "some text",
		JobURL:     "https://example.com/job",
	})
	assert.Error(t, err)
}

func TestResolvePosting_Text(t *testing.T) {
	text, err := resolvePosting(context.Background(), &GenerateRequest{
		JobPosting: "  Senior Go Engineer  ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", text)
}

func TestResolvePosting_Empty(t *testing.T) {
	_, err := resolvePosting(context.Background(), &GenerateRequest{})
	assert.Error(t, err)
}

func TestKnownFeature(t *testing.T) {
	for _, feature := range []string{
		db.FeatureCoverLetter,
		db.FeatureSkillMap,
		db.FeatureChatEdit,
		db.FeatureAnalysis,
		db.FeatureRewrite,
	} {
		assert.True(t, knownFeature(feature), feature)
	}
	assert.False(t, knownFeature("horoscope"))
	assert.False(t, knownFeature(""))
}

func TestNormalizeRewriteOutput(t *testing.T) {
	raw := `{
		"personalInfo": {"name": "Jane Doe", "title": "Engineer"},
		"sections": [
			{"type": "summary", "title": "Summary", "content": "Builds things."},
			{"type": "experience", "title": "Experience", "content": [
				{"title": "Acme", "bullets": [{"text": "Shipped the thing"}, "Kept it running"]}
			]}
		]
	}`

	normalized, err := normalizeRewriteOutput(raw)
	require.NoError(t, err)

	data, err := types.ParseResumeData([]byte(normalized))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", data.PersonalInfo.Name)
	require.Len(t, data.Sections, 2)
	require.Equal(t, types.ContentItems, data.Sections[1].Content.Kind)
	assert.Equal(t, types.BulletList{"Shipped the thing", "Kept it running"}, data.Sections[1].Content.Items[0].Bullets)
}

func TestNormalizeRewriteOutput_RejectsMalformed(t *testing.T) {
	_, err := normalizeRewriteOutput(`"just a string"`)
	assert.Error(t, err)

	_, err = normalizeRewriteOutput(`{"sections": []}`)
	assert.Error(t, err)
}
