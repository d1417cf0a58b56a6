package export

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpkirby/internal/adapters/markup"
	"wpkirby/internal/adapters/memstore"
	"wpkirby/internal/domain"
)

type rewriteRecorder struct {
	exported []int64
	warnings []error
}

func newTestRewriter(t *testing.T, rec *rewriteRecorder) *Rewriter {
	t.Helper()

	store := memstore.New()
	store.AddAttachment(domain.AttachmentRecord{
		ID:  20,
		URL: "https://example.com/wp-content/uploads/2024/03/photo.jpg",
	})

	site, err := url.Parse("https://example.com")
	require.NoError(t, err)

	return NewRewriter(markup.NewEditor(), store, site,
		func(att *domain.AttachmentRecord, dir string) {
			rec.exported = append(rec.exported, att.ID)
		},
		func(err error) {
			rec.warnings = append(rec.warnings, err)
		})
}

var testTarget = domain.ExportTarget{
	Dir: "/export/blog/20240305_hello",
	URL: "https://example.com/blog/hello",
}

func TestRewrite(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     string
		exported []int64
		warnings int
	}{
		{
			name:     "thumbnail resolved to original",
			body:     `<img src="https://example.com/wp-content/uploads/2024/03/photo-300x200.jpg" alt="x">`,
			want:     `<img src="https://example.com/blog/hello/photo.jpg" alt="x">`,
			exported: []int64{20},
		},
		{
			name:     "site-relative path",
			body:     `<img src="/wp-content/uploads/2024/03/photo.jpg" />`,
			want:     `<img src="https://example.com/blog/hello/photo.jpg" />`,
			exported: []int64{20},
		},
		{
			name:     "query string dropped",
			body:     `<img src="https://example.com/wp-content/uploads/2024/03/photo_1024x768.jpg?resize=1024%2C768&ssl=1">`,
			want:     `<img src="https://example.com/blog/hello/photo.jpg">`,
			exported: []int64{20},
		},
		{
			name:     "unknown local file still rewritten",
			body:     `<img src="https://example.com/wp-content/uploads/2019/01/old.png">`,
			want:     `<img src="https://example.com/blog/hello/old.png">`,
			warnings: 1,
		},
		{
			name: "remote image untouched",
			body: `<img src="https://cdn.other.org/photo-300x200.jpg">`,
			want: `<img src="https://cdn.other.org/photo-300x200.jpg">`,
		},
		{
			name: "protocol-relative remote image untouched",
			body: `<img src="//cdn.other.org/photo.jpg">`,
			want: `<img src="//cdn.other.org/photo.jpg">`,
		},
		{
			name: "document-relative image untouched",
			body: `<img src="photo.jpg">`,
			want: `<img src="photo.jpg">`,
		},
		{
			name: "image without src",
			body: `<img class="wp-image-1" loading="lazy" alt="none">`,
			want: `<img alt="none">`,
		},
		{
			name: "denylisted attributes removed",
			body: `<img decoding="async" id="i1" data-id="20" data-attachment-id="20" data-orig-file="a" data-lazy-src="b" data-wp-on--click="c" sizes="100vw" srcset="d 1x" src="https://cdn.other.org/p.jpg" width="300">`,
			want: `<img src="https://cdn.other.org/p.jpg" width="300">`,
		},
		{
			name: "block markup cleaned",
			body: `<figure class="wp-block-image" data-wp-interactive="core/image"><hr class="wp-block-separator"/><ul class="list"><li class="keep">a</li></ul><h3 class="h" id="anchor">T</h3></figure>`,
			want: `<figure><hr/><ul><li class="keep">a</li></ul><h3 id="anchor">T</h3></figure>`,
		},
		{
			name: "links and other tags untouched",
			body: `<p class="lead"><a class="btn" href="/wp-content/uploads/2024/03/photo.jpg">file</a></p>`,
			want: `<p class="lead"><a class="btn" href="/wp-content/uploads/2024/03/photo.jpg">file</a></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &rewriteRecorder{}
			out, err := newTestRewriter(t, rec).Rewrite(tt.body, testTarget)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.exported, rec.exported)
			assert.Len(t, rec.warnings, tt.warnings)
		})
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	rec := &rewriteRecorder{}
	r := newTestRewriter(t, rec)

	body := `<figure class="x"><img class="y" src="/wp-content/uploads/2024/03/photo-300x200.jpg"></figure>`
	once, err := r.Rewrite(body, testTarget)
	require.NoError(t, err)
	twice, err := r.Rewrite(body, testTarget)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestRewrite_EmptyBody(t *testing.T) {
	out, err := newTestRewriter(t, &rewriteRecorder{}).Rewrite("", testTarget)
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
