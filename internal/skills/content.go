package skills

// ContentRule maps a skill to the predicate that decides whether posting text mentions it.
type ContentRule struct {
	Skill string
	Match Matcher
}

// Context words shared by the guarded rules.
var (
	reactContext    = Contains("component", "framework", "frontend", "javascript", "experience")
	reactFalseHits  = Contains("reactive", "reaction", "react to", "react quickly")
	webContext      = Contains("frontend", "web", "browser", "node")
	markupContext   = Any(Contains("frontend", "web", "website"), Word("ui"))
	vcsContext      = Contains("version control", "repository", "github", "gitlab")
	learningContext = Contains("experience", "background", "knowledge")
	cloudContext    = Contains("cloud", "infrastructure", "deployment")
	languageContext = Any(Contains("programming", "languages", "python", "rust", "c++", "java", "backend"), Word("golang"))
)

// DefaultContentRules returns the content-scan table in output order.
//
// Most rules are plain keyword checks. React, JavaScript, HTML/CSS, Git, Machine Learning
// and the cloud providers need supporting context, because bare keyword matches tagged
// unrelated roles (for example "react to production incidents" on GPU postings).
func DefaultContentRules() []ContentRule {
	return []ContentRule{
		{Python, Word("python")},
		{Go, Any(Word("golang"), All(Word("go"), languageContext))},
		{Rust, Word("rust")},
		{CPP, Contains("c++")},
		{Java, Word("java")},
		{
			JavaScript,
			All(Contains("javascript"), webContext),
		},
		{TypeScript, Contains("typescript")},
		{SQL, Word("sql", "postgres", "postgresql", "mysql")},
		{Swift, Word("swift")},
		{Kotlin, Contains("kotlin")},
		{Scala, Word("scala")},
		{
			React,
			All(
				Any(Contains("react.js", "reactjs", "react js"), All(Contains("react"), reactContext)),
				Not(reactFalseHits),
			),
		},
		{NodeJS, Contains("node.js", "nodejs")},
		{
			HTMLCSS,
			All(Word("html", "css", "html5", "css3"), markupContext),
		},
		{PyTorch, Contains("pytorch")},
		{TensorFlow, Contains("tensorflow")},
		{JAX, Word("jax")},
		{CUDA, Contains("cuda")},
		{Kubernetes, Any(Contains("kubernetes"), Word("k8s"))},
		{Docker, Contains("docker")},
		{Terraform, Contains("terraform")},
		{Linux, Contains("linux")},
		{
			Git,
			All(Contains("git"), Not(Contains("digit", "digital")), vcsContext),
		},
		{
			AWS,
			All(Any(Word("aws"), Contains("amazon web services")), cloudContext),
		},
		{
			GCP,
			All(Any(Word("gcp"), Contains("google cloud")), cloudContext),
		},
		{
			Azure,
			All(Word("azure"), cloudContext),
		},
		{Spark, Any(Contains("apache spark", "pyspark"), Word("spark"))},
		{Kafka, Contains("kafka")},
		{
			ML,
			All(Any(Contains("machine learning"), Word("ml")), learningContext),
		},
		{DeepLearning, Contains("deep learning")},
		{NLP, Any(Contains("natural language processing"), Word("nlp"))},
		{Vision, Contains("computer vision")},
		{RL, Contains("reinforcement learning")},
		{Distributed, Contains("distributed systems")},
		{Statistics, Word("statistics", "statistical")},
	}
}

// ScanContent returns the skills whose rule matches text, in rule order and without
// duplicates. text is expected to be normalized (lowercase, collapsed whitespace).
func ScanContent(text string, rules []ContentRule) []string {
	skills := make([]string, 0)
	if text == "" {
		return skills
	}
	seen := make(map[string]bool)
	for _, r := range rules {
		if seen[r.Skill] {
			continue
		}
		if r.Match(text) {
			seen[r.Skill] = true
			skills = append(skills, r.Skill)
		}
	}
	return skills
}
