package crs

import "math"

// Cartesian3 is a position in the Earth-fixed (ECEF) frame, in meters.
type Cartesian3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Transform converts one raw GeoJSON coordinate ([lon, lat] or
// [lon, lat, height]) into a Cartesian position. Transforms must be pure:
// a resolved transform is applied to every coordinate of a load and may be
// called from tests in any order.
type Transform func(coord []float64) Cartesian3

// WGS84 ellipsoid radii squared (meters^2).
const (
	wgs84RadiiSquaredX = 6378137.0 * 6378137.0
	wgs84RadiiSquaredY = 6378137.0 * 6378137.0
	wgs84RadiiSquaredZ = 6356752.3142451793 * 6356752.3142451793
)

// FromRadians converts a WGS84 geodetic position to ECEF.
func FromRadians(lon, lat, height float64) Cartesian3 {
	cosLat := math.Cos(lat)
	nx := cosLat * math.Cos(lon)
	ny := cosLat * math.Sin(lon)
	nz := math.Sin(lat)

	mag := math.Sqrt(nx*nx + ny*ny + nz*nz)
	nx /= mag
	ny /= mag
	nz /= mag

	kx := wgs84RadiiSquaredX * nx
	ky := wgs84RadiiSquaredY * ny
	kz := wgs84RadiiSquaredZ * nz

	gamma := math.Sqrt(nx*kx + ny*ky + nz*kz)

	return Cartesian3{
		X: kx/gamma + height*nx,
		Y: ky/gamma + height*ny,
		Z: kz/gamma + height*nz,
	}
}

// FromDegrees converts a WGS84 geodetic position given in degrees to ECEF.
func FromDegrees(lon, lat, height float64) Cartesian3 {
	const rad = math.Pi / 180
	return FromRadians(lon*rad, lat*rad, height)
}

// WGS84Degrees is the default transform: coordinates are WGS84 degrees with
// an optional ellipsoidal height in meters. A missing height is treated as 0.
func WGS84Degrees(coord []float64) Cartesian3 {
	var lon, lat, height float64
	switch {
	case len(coord) >= 3:
		height = coord[2]
		fallthrough
	case len(coord) == 2:
		lon, lat = coord[0], coord[1]
	case len(coord) == 1:
		lon = coord[0]
	}
	return FromDegrees(lon, lat, height)
}
