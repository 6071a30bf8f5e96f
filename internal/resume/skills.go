package resume

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// SkillsSeed is the built-in skills list used when no skills file is
// configured. Extend via parser.skills-file.
var SkillsSeed = []string{
	"python", "java", "c++", "c", "tensorflow", "pytorch", "scikit-learn",
	"docker", "kubernetes", "aws", "gcp", "azure", "nlp", "computer vision",
	"pandas", "numpy", "sql", "nosql", "react", "nodejs", "git", "rest",
	"go", "golang", "typescript", "terraform", "linux", "grpc", "kafka",
}

// LoadSkills reads a skills file: one skill per line, blank lines and
// #-comments ignored.
func LoadSkills(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening skills file: %w", err)
	}
	defer file.Close()

	var skills []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		skills = append(skills, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading skills file: %w", err)
	}

	return skills, nil
}
