package geo

import "math"

// средний радиус Земли в километрах
const EarthRadiusKm = 6371.0

// Haversine — расстояние по большому кругу между двумя точками, в км.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rlat1 := radians(lat1)
	rlon1 := radians(lon1)
	rlat2 := radians(lat2)
	rlon2 := radians(lon2)

	dlat := rlat2 - rlat1
	dlon := rlon2 - rlon1

	a := math.Pow(math.Sin(dlat/2), 2) + math.Cos(rlat1)*math.Cos(rlat2)*math.Pow(math.Sin(dlon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
