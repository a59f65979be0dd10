package detect

import (
	"encoding/xml"
	"regexp"

	"repoprof/scanner"
)

type javaProbe struct{}

func (javaProbe) Ecosystem() string { return "java" }

func (javaProbe) Detect(ix *scanner.Index, cache *scanner.Cache) *Detection {
	poms := ix.Lookup("pom.xml")
	var gradles []string
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		gradles = append(gradles, ix.Lookup(name)...)
	}
	if len(poms) == 0 && len(gradles) == 0 {
		return nil
	}

	det := &Detection{Ecosystem: "java", PackageManager: "maven"}
	if len(poms) == 0 {
		det.PackageManager = "gradle"
	}

	if len(poms) > 0 {
		p := poms[0]
		if b, err := cache.ReadFile(ix.Abs(p)); err != nil {
			det.warn(p)
		} else {
			parsePom(det, p, b)
		}
	}
	for _, p := range gradles {
		if b, err := cache.ReadFile(ix.Abs(p)); err != nil {
			det.warn(p)
		} else {
			parseGradle(det, b)
		}
	}
	return det
}

type pomFile struct {
	Dependencies struct {
		Dependency []pomDependency `xml:"dependency"`
	} `xml:"dependencies"`
	DependencyManagement struct {
		Dependencies struct {
			Dependency []pomDependency `xml:"dependency"`
		} `xml:"dependencies"`
	} `xml:"dependencyManagement"`
}

type pomDependency struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

// parsePom reads a Maven POM. Dependencies are named groupId:artifactId,
// the coordinate form the signature tables use. Property placeholders like
// ${spring.version} pass through as-is.
func parsePom(det *Detection, path string, b []byte) {
	var pom pomFile
	if err := xml.Unmarshal(b, &pom); err != nil {
		det.warn(path)
		return
	}
	all := append(pom.Dependencies.Dependency, pom.DependencyManagement.Dependencies.Dependency...)
	for _, d := range all {
		if d.GroupID == "" || d.ArtifactID == "" {
			continue
		}
		det.addDep(d.GroupID+":"+d.ArtifactID, d.Version)
	}
}

// gradleDepRe matches the common declaration forms:
//
//	implementation 'org.example:lib:1.0'
//	testImplementation("org.example:lib:1.0")
var gradleDepRe = regexp.MustCompile(`(?m)^\s*(?:implementation|api|compileOnly|runtimeOnly|testImplementation|testRuntimeOnly|annotationProcessor)\s*\(?\s*["']([^:"']+):([^:"']+)(?::([^"']+))?["']`)

func parseGradle(det *Detection, b []byte) {
	for _, m := range gradleDepRe.FindAllStringSubmatch(string(b), -1) {
		det.addDep(m[1]+":"+m[2], m[3])
	}
}
