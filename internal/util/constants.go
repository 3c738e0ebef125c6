package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Question ids the mobile client submits advisor feedback under.
const (
	QuestionStrengths    = "strengths"
	QuestionGrowthAreas  = "growth_areas"
	QuestionBlindSpots   = "blind_spots"
	QuestionBestContext  = "best_context"
	QuestionOneChange    = "one_change"
)
