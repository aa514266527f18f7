package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestComputeSignatureDeterministic(t *testing.T) {
	data := []byte("field photo bytes")
	a := ComputeSignature(data)
	b := ComputeSignature(data)

	assert.Equal(t, a, b)
	assert.Equal(t, int64(len(data)), a.SizeBytes)
	assert.Len(t, a.SHA256, 64)
	assert.Len(t, a.MD5, 32)

	c := ComputeSignature([]byte("different bytes"))
	assert.NotEqual(t, a.SHA256, c.SHA256)
}

func TestComputeSignatureEmpty(t *testing.T) {
	sig := ComputeSignature(nil)
	assert.Equal(t, int64(0), sig.SizeBytes)
	assert.NotEmpty(t, sig.SHA256)
}

func TestCheckDuplicateEmptyCandidates(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte("photo"))

	result, err := engine.CheckDuplicate(sig, nil, nil, nil)
	require.NoError(t, err)

	assert.False(t, result.IsDuplicate)
	assert.True(t, result.ShouldStoreSeparately)
	assert.Equal(t, DuplicateNone, result.DuplicateType)
	assert.Zero(t, result.Confidence)
}

func TestCheckDuplicateNoMatch(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte("photo"))

	candidates := []Candidate{
		{ID: "det_1", ContentHash: "deadbeef", SizeBytes: sig.SizeBytes},
		{ID: "det_2", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes + 1},
	}

	result, err := engine.CheckDuplicate(sig, candidates, nil, nil)
	require.NoError(t, err)

	assert.False(t, result.IsDuplicate)
	assert.True(t, result.ShouldStoreSeparately)
}

func TestCheckDuplicateContentOnly(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte("photo"))

	candidates := []Candidate{
		{ID: "det_1", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes, ImageURL: "https://img/det_1.jpg"},
	}

	result, err := engine.CheckDuplicate(sig, candidates, nil, nil)
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	assert.False(t, result.ShouldStoreSeparately)
	assert.Equal(t, DuplicateExactContent, result.DuplicateType)
	assert.Equal(t, "det_1", result.DuplicateRecordID)
	assert.Equal(t, "https://img/det_1.jpg", result.ReferenceImageURL)
	assert.InDelta(t, 0.4, result.Confidence, 0.001)
	assert.Equal(t, sig.SizeBytes, result.StorageSavedBytes)
}

func TestCheckDuplicateAllFactors(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte("photo"))

	candidates := []Candidate{
		{
			ID:          "det_1",
			ContentHash: sig.SHA256,
			SizeBytes:   sig.SizeBytes,
			ImageURL:    "https://img/det_1.jpg",
			CameraMake:  "Samsung",
			CameraModel: "SM-A515F",
			HasGPS:      true,
			Latitude:    floatPtr(-23.5505),
			Longitude:   floatPtr(-46.6333),
		},
	}
	camera := &CameraInfo{Make: "Samsung", Model: "SM-A515F"}
	gps := &GPSInfo{Latitude: -23.55095, Longitude: -46.6333} // ~50 m away

	result, err := engine.CheckDuplicate(sig, candidates, camera, gps)
	require.NoError(t, err)

	assert.True(t, result.IsDuplicate)
	assert.Greater(t, result.Confidence, 0.9)
}

func TestCheckDuplicateFactorMismatches(t *testing.T) {
	sig := ComputeSignature([]byte("photo"))
	base := Candidate{ID: "det_1", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes}

	tests := []struct {
		name       string
		candidate  Candidate
		camera     *CameraInfo
		gps        *GPSInfo
		confidence float64
	}{
		{
			name: "camera mismatch earns nothing",
			candidate: func() Candidate {
				c := base
				c.CameraMake = "Apple"
				c.CameraModel = "iPhone 12"
				return c
			}(),
			camera:     &CameraInfo{Make: "Samsung", Model: "SM-A515F"},
			confidence: 0.4,
		},
		{
			name:       "camera absent on candidate is not evaluated",
			candidate:  base,
			camera:     &CameraInfo{Make: "Samsung", Model: "SM-A515F"},
			confidence: 0.4,
		},
		{
			name: "gps beyond threshold earns nothing",
			candidate: func() Candidate {
				c := base
				c.HasGPS = true
				c.Latitude = floatPtr(-23.5505)
				c.Longitude = floatPtr(-46.6333)
				return c
			}(),
			gps:        &GPSInfo{Latitude: -23.5600, Longitude: -46.6333}, // ~1 km away
			confidence: 0.4,
		},
		{
			name: "gps inside threshold earns weight",
			candidate: func() Candidate {
				c := base
				c.HasGPS = true
				c.Latitude = floatPtr(-23.5505)
				c.Longitude = floatPtr(-46.6333)
				return c
			}(),
			gps:        &GPSInfo{Latitude: -23.5505, Longitude: -46.6333},
			confidence: 0.7,
		},
	}

	engine := New(DefaultParams())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.CheckDuplicate(sig, []Candidate{tt.candidate}, tt.camera, tt.gps)
			require.NoError(t, err)
			assert.True(t, result.IsDuplicate)
			assert.InDelta(t, tt.confidence, result.Confidence, 0.001)
		})
	}
}

func TestCheckDuplicatePicksBestMatch(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte("photo"))
	camera := &CameraInfo{Make: "Samsung", Model: "SM-A515F"}

	candidates := []Candidate{
		{ID: "det_plain", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes, ImageURL: "https://img/plain.jpg"},
		{
			ID:          "det_camera",
			ContentHash: sig.SHA256,
			SizeBytes:   sig.SizeBytes,
			ImageURL:    "https://img/camera.jpg",
			CameraMake:  "Samsung",
			CameraModel: "SM-A515F",
		},
	}

	result, err := engine.CheckDuplicate(sig, candidates, camera, nil)
	require.NoError(t, err)

	assert.Equal(t, "det_camera", result.DuplicateRecordID)
	assert.Equal(t, "https://img/camera.jpg", result.ReferenceImageURL)
	assert.InDelta(t, 0.7, result.Confidence, 0.001)
}

func TestCheckDuplicateTieBreaksOnFirstOccurrence(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte("photo"))

	candidates := []Candidate{
		{ID: "det_newest", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes},
		{ID: "det_older", ContentHash: sig.SHA256, SizeBytes: sig.SizeBytes},
	}

	result, err := engine.CheckDuplicate(sig, candidates, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "det_newest", result.DuplicateRecordID)
}

func TestCheckDuplicateNegativeSize(t *testing.T) {
	engine := New(DefaultParams())
	_, err := engine.CheckDuplicate(Signature{SHA256: "abc", SizeBytes: -1}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNegativeSize)
}

func TestCheckDuplicateZeroByteImage(t *testing.T) {
	engine := New(DefaultParams())
	sig := ComputeSignature([]byte{})

	candidates := []Candidate{
		{ID: "det_1", ContentHash: sig.SHA256, SizeBytes: 0, ImageURL: "https://img/det_1.jpg"},
	}

	result, err := engine.CheckDuplicate(sig, candidates, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.IsDuplicate)
	assert.Zero(t, result.StorageSavedBytes)
}
