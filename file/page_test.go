package file_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corvidb/corvidb/file"
)

func TestPageIntRoundTrip(t *testing.T) {
	p := file.NewPageWithSize(400)
	for _, v := range []int{0, 1, -1, 123456, -999999} {
		p.SetInt(40, v)
		require.Equal(t, v, p.Int(40))
	}
}

func TestPageStringRoundTrip(t *testing.T) {
	p := file.NewPageWithSize(400)
	for _, v := range []string{"", "hello", "héllo wörld", "日本語"} {
		p.SetString(0, v)
		require.Equal(t, v, p.String(0))
	}
}

func TestPageBytesRoundTrip(t *testing.T) {
	p := file.NewPageWithSize(400)
	want := []byte{1, 2, 3, 4, 5}
	p.SetBytes(10, want)
	require.Equal(t, want, p.Bytes(10))
}

func TestMaxLengthBoundsWorstCaseUTF8(t *testing.T) {
	require.Equal(t, file.IntSize+6*10, file.MaxLength(10))
}
