package cfg

type Cfg struct {
	// Application configuration
	BrandsDir         string
	DBPath            string
	Port              string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	DefaultLimit      int

	// Judgment provider configuration
	JudgeEndpoint    string
	JudgeModel       string
	JudgeAPIKey      string
	JudgeConcurrency int
	JudgeTimeout     int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
