package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillmate/quillmate-cli/pkg/models"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantOp  models.Operation
		wantErr error
	}{
		{
			name:   "inline edit",
			raw:    `{"operation":"inline_edit","message":"m","changes":[{"lineNumber":1,"content":"x","type":"paragraph"}]}`,
			wantOp: models.OpInlineEdit,
		},
		{
			name:   "continue",
			raw:    `{"operation":"continue_text","message":"m","newLines":[{"content":"x","type":"paragraph"}],"afterLine":2}`,
			wantOp: models.OpContinueText,
		},
		{
			name:   "delete with empty list",
			raw:    `{"operation":"delete_text","linesToDelete":[]}`,
			wantOp: models.OpDeleteText,
		},
		{
			name:   "analyze",
			raw:    `{"operation":"analyze_text","analysis":{"summary":"s","purpose":"p","keyComponents":[]}}`,
			wantOp: models.OpAnalyzeText,
		},
		{name: "not json", raw: `Sure! Here you go`, wantErr: ErrMalformedResponse},
		{name: "missing operation", raw: `{"message":"hi"}`, wantErr: ErrMalformedResponse},
		{name: "unknown operation", raw: `{"operation":"translate"}`, wantErr: ErrUnknownOperation},
		{name: "no new lines", raw: `{"operation":"continue_text","newLines":[]}`, wantErr: ErrMalformedResponse},
		{name: "negative anchor", raw: `{"operation":"continue_text","newLines":[{"content":"x"}],"afterLine":-1}`, wantErr: ErrMalformedResponse},
		{name: "line zero", raw: `{"operation":"inline_edit","changes":[{"lineNumber":0,"content":"x"}]}`, wantErr: ErrMalformedResponse},
		{name: "heading type", raw: `{"operation":"inline_edit","changes":[{"lineNumber":1,"content":"x","type":"heading"}]}`, wantErr: ErrMalformedResponse},
		{name: "delete without lines", raw: `{"operation":"delete_text"}`, wantErr: ErrMalformedResponse},
		{name: "analysis without summary", raw: `{"operation":"analyze_text","analysis":{"purpose":"p"}}`, wantErr: ErrMalformedResponse},
		{name: "wrong field type", raw: `{"operation":"summarize_text","summary":42}`, wantErr: ErrMalformedResponse},
		{name: "file without content", raw: `{"operation":"generate_file","filename":"a"}`, wantErr: ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Decode([]byte(tt.raw))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOp, resp.Operation())
		})
	}
}

func TestDecodeContinueAnchor(t *testing.T) {
	resp, err := Decode([]byte(`{"operation":"continue_text","newLines":[{"content":"x"}]}`))
	require.NoError(t, err)

	cont, ok := resp.(*ContinueResponse)
	require.True(t, ok)
	assert.Nil(t, cont.AfterLine)
}
