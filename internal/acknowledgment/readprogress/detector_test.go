package readprogress

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"siteops/internal/acknowledgment/models"
	id "siteops/pkg/domain"
	dErrors "siteops/pkg/domain-errors"
)

func TestRenderingFor(t *testing.T) {
	author := id.UserID(uuid.New())
	rams, err := models.NewDocument(id.NewDocumentID(), id.DocumentKindRiskPack, "RAMS", "", "files/rams.pdf", true, author, time.Now())
	require.NoError(t, err)
	talk, err := models.NewDocument(id.NewDocumentID(), id.DocumentKindBulletin, "Talk", "Body", "", false, author, time.Now())
	require.NoError(t, err)

	assert.Equal(t, RenderingFile, RenderingFor(rams))
	assert.Equal(t, RenderingInline, RenderingFor(talk))
}

func TestDetector_Satisfied(t *testing.T) {
	d := New(0.9, 5*time.Second)

	tests := []struct {
		name      string
		rendering Rendering
		signal    Signal
		want      bool
		wantErr   bool
	}{
		{"inline scroll past threshold", RenderingInline, Signal{Trigger: TriggerScroll, ScrollFraction: 0.92}, true, false},
		{"inline scroll short", RenderingInline, Signal{Trigger: TriggerScroll, ScrollFraction: 0.5}, false, false},
		{"inline dwell long enough", RenderingInline, Signal{Trigger: TriggerDwell, Dwell: 6 * time.Second}, true, false},
		{"file dwell short", RenderingFile, Signal{Trigger: TriggerDwell, Dwell: time.Second}, false, false},
		{"file download", RenderingFile, Signal{Trigger: TriggerDownload}, true, false},
		{"file scroll rejected", RenderingFile, Signal{Trigger: TriggerScroll, ScrollFraction: 1}, false, true},
		{"inline download rejected", RenderingInline, Signal{Trigger: TriggerDownload}, false, true},
		{"scroll out of range", RenderingInline, Signal{Trigger: TriggerScroll, ScrollFraction: 1.5}, false, true},
		{"scroll NaN", RenderingInline, Signal{Trigger: TriggerScroll, ScrollFraction: math.NaN()}, false, true},
		{"negative dwell", RenderingInline, Signal{Trigger: TriggerDwell, Dwell: -time.Second}, false, true},
		{"unknown trigger", RenderingInline, Signal{Trigger: "hover"}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Satisfied(tt.rendering, tt.signal)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	d := New(0, 0)
	ok, err := d.Satisfied(RenderingInline, Signal{Trigger: TriggerScroll, ScrollFraction: 0.94})
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = d.Satisfied(RenderingInline, Signal{Trigger: TriggerDwell, Dwell: DefaultMinDwell})
	require.NoError(t, err)
	assert.True(t, ok)
}
