package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestLatLngValidate(t *testing.T) {
	tests := []struct {
		name    string
		ll      LatLng
		wantErr bool
	}{
		{name: "origin", ll: LatLng{}},
		{name: "corners", ll: LatLng{Lat: -90, Lng: 180}},
		{name: "latitude too large", ll: LatLng{Lat: 90.0001, Lng: 0}, wantErr: true},
		{name: "longitude too small", ll: LatLng{Lat: 0, Lng: -180.5}, wantErr: true},
		{name: "NaN", ll: LatLng{Lat: math.NaN(), Lng: 0}, wantErr: true},
		{name: "Inf", ll: LatLng{Lat: 0, Lng: math.Inf(-1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ll.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestZone(t *testing.T) {
	assert.True(t, Zone{Number: 32, Hemisphere: North}.Valid())
	assert.False(t, Zone{Number: 0, Hemisphere: North}.Valid())
	assert.False(t, Zone{Number: 61, Hemisphere: South}.Valid())

	assert.Equal(t, 32632, Zone{Number: 32, Hemisphere: North}.EPSG())
	assert.Equal(t, 32756, Zone{Number: 56, Hemisphere: South}.EPSG())
	assert.Equal(t, "17N", Zone{Number: 17, Hemisphere: North}.String())
	assert.Equal(t, "1S", Zone{Number: 1, Hemisphere: South}.String())
}

func TestPointOrder(t *testing.T) {
	assert.Equal(t, orb.Point{8.5, 47.25}, LatLng{Lat: 47.25, Lng: 8.5}.Point())
	assert.Equal(t, orb.Point{1, 2}, Local{X: 1, Y: 2}.Point())
}

func TestParseLatLng(t *testing.T) {
	tests := []struct {
		in      string
		want    LatLng
		wantErr bool
	}{
		{in: "47.0,8.0", want: LatLng{Lat: 47, Lng: 8}},
		{in: " -37.8497 , 144.968 ", want: LatLng{Lat: -37.8497, Lng: 144.968}},
		{in: "47.0", wantErr: true},
		{in: "47,8,9", wantErr: true},
		{in: "north,east", wantErr: true},
		{in: "91,8", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLatLng(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
