package storage

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/dalnet/bot74/internal/bot"
	"github.com/ergochat/irc-go/ircmsg"
)

const adminsFile = "admins.txt"

// Mask matches senders by nick, user and host. Each field is a
// case-insensitive wildcard pattern where '*' matches any run of characters
// and '?' any single one. An empty field matches anything.
type Mask struct {
	Nick string
	User string
	Host string
}

// ParseMask reads a nick!user@host mask
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 {
		return Mask{}, fmt.Errorf("invalid admin mask %q: contains whitespace", s)
	}
	nuh, err := ircmsg.ParseNUH(s)
	if err != nil {
		return Mask{}, fmt.Errorf("invalid admin mask %q: %w", s, err)
	}
	m := Mask{Nick: nuh.Name, User: nuh.User, Host: nuh.Host}
	if m.Nick == "" && m.User == "" && m.Host == "" {
		return Mask{}, fmt.Errorf("invalid admin mask %q", s)
	}
	return m, nil
}

func (m Mask) String() string {
	field := func(s string) string {
		if s == "" {
			return "*"
		}
		return s
	}
	return field(m.Nick) + "!" + field(m.User) + "@" + field(m.Host)
}

// Matches reports whether p is covered by the mask
func (m Mask) Matches(p bot.MsgPrefix) bool {
	return matchField(m.Nick, p.Nick) && matchField(m.User, p.User) && matchField(m.Host, p.Host)
}

func matchField(pattern, value string) bool {
	switch {
	case pattern == "" || pattern == "*":
		return true
	case !strings.ContainsAny(pattern, "*?"):
		return strings.EqualFold(pattern, value)
	}
	return compileGlob(pattern).MatchString(value)
}

// compileGlob turns a wildcard pattern into an anchored, case-insensitive
// regexp.
func compileGlob(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}

// Admins decides who holds the Admin level. Masks from the configuration are
// fixed; admins.txt in the data directory is re-read on every check so it can
// be edited while the bot runs.
type Admins struct {
	dataDir string
	static  []Mask
}

// NewAdmins creates an admin list from configured masks and a data directory
func NewAdmins(dataDir string, masks []string) (*Admins, error) {
	a := &Admins{dataDir: dataDir}
	for _, s := range masks {
		m, err := ParseMask(s)
		if err != nil {
			return nil, err
		}
		a.static = append(a.static, m)
	}
	return a, nil
}

// IsAdmin implements bot.AdminChecker
func (a *Admins) IsAdmin(p bot.MsgPrefix) (bool, error) {
	if p.Nick == "" {
		return false, nil
	}
	for _, m := range a.static {
		if m.Matches(p) {
			return true, nil
		}
	}

	masks, err := LoadAdmins(a.dataDir)
	if err != nil {
		return false, err
	}
	for _, m := range masks {
		if m.Matches(p) {
			return true, nil
		}
	}
	return false, nil
}

// LoadAdmins reads the admin masks stored in dataDir. A missing file holds no
// masks.
func LoadAdmins(dataDir string) ([]Mask, error) {
	path := filepath.Join(dataDir, adminsFile)
	lines, err := readLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read admin list: %w", err)
	}

	masks := make([]Mask, 0, len(lines))
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		m, err := ParseMask(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		masks = append(masks, m)
	}
	return masks, nil
}

// SaveAdmins writes the admin masks to dataDir
func SaveAdmins(dataDir string, masks []Mask) error {
	lines := make([]string, len(masks))
	for i, m := range masks {
		lines[i] = m.String()
	}
	return writeLines(filepath.Join(dataDir, adminsFile), lines)
}

// AddAdmin stores a new mask unless an identical one is already present. It
// reports whether the list changed.
func AddAdmin(dataDir string, mask Mask) (bool, error) {
	masks, err := LoadAdmins(dataDir)
	if err != nil {
		return false, err
	}
	for _, m := range masks {
		if strings.EqualFold(m.String(), mask.String()) {
			return false, nil
		}
	}
	if err := SaveAdmins(dataDir, append(masks, mask)); err != nil {
		return false, err
	}
	return true, nil
}

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}
