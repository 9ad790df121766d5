// Package skills infers a normalized skill list for a job posting, either by scanning the
// posting text or from the job title alone.
package skills

import "strings"

// Skill labels. Every label the inferrer can emit is listed in Vocabulary.
const (
	Python       = "Python"
	Go           = "Go"
	Rust         = "Rust"
	CPP          = "C++"
	Java         = "Java"
	JavaScript   = "JavaScript"
	TypeScript   = "TypeScript"
	SQL          = "SQL"
	Swift        = "Swift"
	Kotlin       = "Kotlin"
	Scala        = "Scala"
	React        = "React"
	NodeJS       = "Node.js"
	HTMLCSS      = "HTML/CSS"
	PyTorch      = "PyTorch"
	TensorFlow   = "TensorFlow"
	JAX          = "JAX"
	CUDA         = "CUDA"
	Kubernetes   = "Kubernetes"
	Docker       = "Docker"
	Terraform    = "Terraform"
	Linux        = "Linux"
	Git          = "Git"
	AWS          = "AWS"
	GCP          = "GCP"
	Azure        = "Azure"
	Cloud        = "Cloud"
	Spark        = "Spark"
	Kafka        = "Kafka"
	ML           = "Machine Learning"
	DeepLearning = "Deep Learning"
	NLP          = "NLP"
	Vision       = "Computer Vision"
	RL           = "Reinforcement Learning"
	Distributed  = "Distributed Systems"
	Statistics   = "Statistics"
	DataAnalysis = "Data Analysis"
	Leadership   = "Leadership"
	ProjectMgmt  = "Project Management"
	Sales        = "Sales"
	CustSuccess  = "Customer Success"
	CAD          = "CAD"
	Electrical   = "Electrical Systems"
	Mechanical   = "Mechanical Systems"
	HVAC         = "HVAC"
	Construction = "Construction Management"
)

// Vocabulary is the closed set of skill labels, in canonical display order.
var Vocabulary = []string{
	Python, Go, Rust, CPP, Java, JavaScript, TypeScript, SQL, Swift, Kotlin, Scala,
	React, NodeJS, HTMLCSS, PyTorch, TensorFlow, JAX, CUDA,
	Kubernetes, Docker, Terraform, Linux, Git, AWS, GCP, Azure, Cloud, Spark, Kafka,
	ML, DeepLearning, NLP, Vision, RL, Distributed, Statistics, DataAnalysis,
	Leadership, ProjectMgmt, Sales, CustSuccess,
	CAD, Electrical, Mechanical, HVAC, Construction,
}

// FacilitiesSkills is the skill set for data-center and facilities roles.
var FacilitiesSkills = []string{Electrical, Mechanical, HVAC, Construction, ProjectMgmt}

var vocabularyIndex = func() map[string]bool {
	m := make(map[string]bool, len(Vocabulary))
	for _, s := range Vocabulary {
		m[s] = true
	}
	return m
}()

// InVocabulary reports whether skill is a known label (exact match).
func InVocabulary(skill string) bool {
	return vocabularyIndex[skill]
}

// aliases maps lowercase variants to vocabulary labels.
var aliases = map[string]string{
	"golang":      Go,
	"go lang":     Go,
	"js":          JavaScript,
	"ts":          TypeScript,
	"react.js":    React,
	"reactjs":     React,
	"nodejs":      NodeJS,
	"node":        NodeJS,
	"cpp":         CPP,
	"c plus plus": CPP,
	"html":        HTMLCSS,
	"css":         HTMLCSS,

	"k8s":                   Kubernetes,
	"amazon web services":   AWS,
	"google cloud":          GCP,
	"google cloud platform": GCP,
	"postgres":              SQL,
	"postgresql":            SQL,
	"mysql":                 SQL,

	"ml":                          ML,
	"natural language processing": NLP,
	"cv":                          Vision,
	"rl":                          RL,
	"pm":                          ProjectMgmt,
}

// NormalizeSkillName maps a free-form skill name to its vocabulary label.
// It returns "" when the name does not correspond to any label.
func NormalizeSkillName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	if InVocabulary(trimmed) {
		return trimmed
	}
	lower := strings.ToLower(trimmed)
	if canonical, ok := aliases[lower]; ok {
		return canonical
	}
	for _, s := range Vocabulary {
		if strings.ToLower(s) == lower {
			return s
		}
	}
	return ""
}
