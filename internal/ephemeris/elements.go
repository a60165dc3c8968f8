package ephemeris

import "github.com/solarviz/orbits/pkg/core"

// elementRate is an orbital element at J2000 and its rate of change per Julian century.
type elementRate struct {
	At0, PerCentury float64
}

func (e elementRate) at(tCen float64) float64 {
	return e.At0 + e.PerCentury*tCen
}

// meanElements are JPL approximate Keplerian elements: semi-major axis (AU),
// eccentricity, inclination, mean longitude, longitude of perihelion and
// longitude of the ascending node (degrees), J2000 ecliptic.
type meanElements struct {
	A, E, I, L, LongPeri, LongNode elementRate
}

// correction holds the Table 2b mean anomaly terms for the outer planets.
type correction struct {
	B, C, S, F float64
}

// shortTable is valid 1800 AD to 2050 AD. Earth is the Earth-Moon barycenter.
var shortTable = map[core.Planet]meanElements{
	core.Mercury: {
		A: elementRate{0.38709927, 0.00000037}, E: elementRate{0.20563593, 0.00001906},
		I: elementRate{7.00497902, -0.00594749}, L: elementRate{252.25032350, 149472.67411175},
		LongPeri: elementRate{77.45779628, 0.16047689}, LongNode: elementRate{48.33076593, -0.12534081},
	},
	core.Venus: {
		A: elementRate{0.72333566, 0.00000390}, E: elementRate{0.00677672, -0.00004107},
		I: elementRate{3.39467605, -0.00078890}, L: elementRate{181.97909950, 58517.81538729},
		LongPeri: elementRate{131.60246718, 0.00268329}, LongNode: elementRate{76.67984255, -0.27769418},
	},
	core.Earth: {
		A: elementRate{1.00000261, 0.00000562}, E: elementRate{0.01671123, -0.00004392},
		I: elementRate{-0.00001531, -0.01294668}, L: elementRate{100.46457166, 35999.37244981},
		LongPeri: elementRate{102.93768193, 0.32327364}, LongNode: elementRate{0, 0},
	},
	core.Mars: {
		A: elementRate{1.52371034, 0.00001847}, E: elementRate{0.09339410, 0.00007882},
		I: elementRate{1.84969142, -0.00813131}, L: elementRate{-4.55343205, 19140.30268499},
		LongPeri: elementRate{-23.94362959, 0.44441088}, LongNode: elementRate{49.55953891, -0.29257343},
	},
	core.Jupiter: {
		A: elementRate{5.20288700, -0.00011607}, E: elementRate{0.04838624, -0.00013253},
		I: elementRate{1.30439695, -0.00183714}, L: elementRate{34.39644051, 3034.74612775},
		LongPeri: elementRate{14.72847983, 0.21252668}, LongNode: elementRate{100.47390909, 0.20469106},
	},
	core.Saturn: {
		A: elementRate{9.53667594, -0.00125060}, E: elementRate{0.05386179, -0.00050991},
		I: elementRate{2.48599187, 0.00193609}, L: elementRate{49.95424423, 1222.49362201},
		LongPeri: elementRate{92.59887831, -0.41897216}, LongNode: elementRate{113.66242448, -0.28867794},
	},
	core.Uranus: {
		A: elementRate{19.18916464, -0.00196176}, E: elementRate{0.04725744, -0.00004397},
		I: elementRate{0.77263783, -0.00242939}, L: elementRate{313.23810451, 428.48202785},
		LongPeri: elementRate{170.95427630, 0.40805281}, LongNode: elementRate{74.01692503, 0.04240589},
	},
	core.Neptune: {
		A: elementRate{30.06992276, 0.00026291}, E: elementRate{0.00859048, 0.00005105},
		I: elementRate{1.77004347, 0.00035372}, L: elementRate{-55.12002969, 218.45945325},
		LongPeri: elementRate{44.96476227, -0.32241464}, LongNode: elementRate{131.78422574, -0.00508664},
	},
}

// longTable is valid 3000 BC to 3000 AD and is paired with longCorrections.
var longTable = map[core.Planet]meanElements{
	core.Mercury: {
		A: elementRate{0.38709843, 0}, E: elementRate{0.20563661, 0.00002123},
		I: elementRate{7.00559432, -0.00590158}, L: elementRate{252.25166724, 149472.67486623},
		LongPeri: elementRate{77.45771895, 0.15940013}, LongNode: elementRate{48.33961819, -0.12214182},
	},
	core.Venus: {
		A: elementRate{0.72332102, -0.00000026}, E: elementRate{0.00676399, -0.00005107},
		I: elementRate{3.39777545, 0.00043494}, L: elementRate{181.97970850, 58517.81560260},
		LongPeri: elementRate{131.76755713, 0.05679648}, LongNode: elementRate{76.67261496, -0.27274174},
	},
	core.Earth: {
		A: elementRate{1.00000018, -0.00000003}, E: elementRate{0.01673163, -0.00003661},
		I: elementRate{-0.00054346, -0.01337178}, L: elementRate{100.46691572, 35999.37306329},
		LongPeri: elementRate{102.93005885, 0.31795260}, LongNode: elementRate{-5.11260389, -0.24123856},
	},
	core.Mars: {
		A: elementRate{1.52371243, 0.00000097}, E: elementRate{0.09336511, 0.00009149},
		I: elementRate{1.85181869, -0.00724757}, L: elementRate{-4.56813164, 19140.29934243},
		LongPeri: elementRate{-23.91744784, 0.45223625}, LongNode: elementRate{49.71320984, -0.26852431},
	},
	core.Jupiter: {
		A: elementRate{5.20248019, -0.00002864}, E: elementRate{0.04853590, 0.00018026},
		I: elementRate{1.29861416, -0.00322699}, L: elementRate{34.33479152, 3034.90371757},
		LongPeri: elementRate{14.27495244, 0.18199196}, LongNode: elementRate{100.29282654, 0.13024619},
	},
	core.Saturn: {
		A: elementRate{9.54149883, -0.00003065}, E: elementRate{0.05550825, -0.00032044},
		I: elementRate{2.49424102, 0.00451969}, L: elementRate{50.07571329, 1222.11494724},
		LongPeri: elementRate{92.86136063, 0.54179478}, LongNode: elementRate{113.63998702, -0.25015002},
	},
	core.Uranus: {
		A: elementRate{19.18797948, -0.00020455}, E: elementRate{0.04685740, -0.00001550},
		I: elementRate{0.77298127, -0.00180155}, L: elementRate{314.20276625, 428.49512595},
		LongPeri: elementRate{172.43404441, 0.09266985}, LongNode: elementRate{73.96250215, 0.05739699},
	},
	core.Neptune: {
		A: elementRate{30.06952752, 0.00006447}, E: elementRate{0.00895439, 0.00000818},
		I: elementRate{1.77005520, 0.00022400}, L: elementRate{304.22289287, 218.46515314},
		LongPeri: elementRate{46.68158724, 0.01009938}, LongNode: elementRate{131.78635853, -0.00606302},
	},
}

var longCorrections = map[core.Planet]correction{
	core.Jupiter: {B: -0.00012452, C: 0.06064060, S: -0.35635438, F: 38.35125000},
	core.Saturn:  {B: 0.00025899, C: -0.13434469, S: 0.87320147, F: 38.35125000},
	core.Uranus:  {B: 0.00058331, C: -0.97731848, S: 0.17689245, F: 7.67025000},
	core.Neptune: {B: -0.00041348, C: 0.68346318, S: -0.10162547, F: 7.67025000},
}
