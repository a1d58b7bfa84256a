package config

// Domain constants for dataset generation and validation. The pools and
// distributions mirror the CSV files this tool is expected to consume.

// DefaultCSVName is the file name used when no output path is given.
const DefaultCSVName = "studenti_ispit.csv"

// DefaultProfileCSVName is the profile-schema counterpart.
const DefaultProfileCSVName = "studenti_profil.csv"

// ExamTerms is the closed list of exam terms.
var ExamTerms = []string{"2025-01", "2025-02", "2025-06", "2025-09"}

// GradeThresholds maps a grade to the minimum score that earns it.
// Applied highest grade first.
var GradeThresholds = map[int]int{
	5: 90,
	4: 80,
	3: 65,
	2: 50,
	1: 0,
}

// ScoreBand is one segment of the synthetic score mixture: with
// probability up to CumulativeP, scores are drawn from a normal
// distribution with the given mean and std, clipped to [Min, Max].
type ScoreBand struct {
	CumulativeP float64
	Mean        float64
	Std         float64
	Min         int
	Max         int
}

// ScoreDistribution is the five-band mixture producing a realistic score
// spread: a failing tail, a wide middle and a small top band.
var ScoreDistribution = []ScoreBand{
	{CumulativeP: 0.15, Mean: 25, Std: 10, Min: 0, Max: 49},
	{CumulativeP: 0.30, Mean: 55, Std: 8, Min: 50, Max: 64},
	{CumulativeP: 0.55, Mean: 70, Std: 6, Min: 65, Max: 79},
	{CumulativeP: 0.80, Mean: 85, Std: 5, Min: 80, Max: 89},
	{CumulativeP: 1.00, Mean: 93, Std: 4, Min: 90, Max: 100},
}

// MaleNames, FemaleNames and Surnames are the pools for synthetic student
// names. Generated full names are unique within a table, so the product of
// the pool sizes bounds the maximum row count.
var MaleNames = []string{
	"Luka", "Ivan", "Marko", "Petar", "Josip", "Matej", "Filip", "Ante", "Tomislav",
	"Karlo", "Leon", "David", "Antonio", "Nikola", "Fran", "Lovro", "Borna", "Domagoj",
	"Tin", "Jan", "Roko", "Matija", "Jakov", "Andrija", "Marin", "Bruno", "Leo",
}

var FemaleNames = []string{
	"Ana", "Marija", "Ivana", "Petra", "Lucija", "Maja", "Sara", "Lana", "Eva",
	"Ema", "Mia", "Nika", "Lara", "Nina", "Tea", "Lea", "Paula", "Helena",
	"Karla", "Marta", "Katarina", "Valentina", "Klara", "Gabriela", "Nikolina",
}

var Surnames = []string{
	"Horvat", "Kovačević", "Babić", "Marić", "Novak", "Jurić", "Kovač", "Knežević",
	"Vuković", "Božić", "Blažević", "Perić", "Tomić", "Matić", "Pavlović", "Radić",
	"Šimić", "Nikolić", "Grgić", "Filipović", "Barić", "Lončar", "Pavić", "Šarić",
	"Jakić", "Klarić", "Vidović", "Mihaljević", "Tadić", "Lovrić", "Petrović",
}

// Specializations is the closed list for the profile schema.
var Specializations = []string{
	"Softversko inženjerstvo",
	"Računalne mreže",
	"Baze podataka",
	"Web dizajn",
}

// Cities is the closed list for the profile schema.
var Cities = []string{"Zagreb", "Split", "Rijeka", "Osijek", "Zadar", "Varaždin"}

// ScoreToGrade converts an exam score into a grade using GradeThresholds.
func ScoreToGrade(score int) int {
	for grade := 5; grade >= 1; grade-- {
		if score >= GradeThresholds[grade] {
			return grade
		}
	}
	return 1
}
