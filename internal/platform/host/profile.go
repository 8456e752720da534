package host

import (
	"bufio"
	"fmt"
	"strings"
)

// PackageManager identifies the package-manager dialect of the host.
type PackageManager string

// Supported package-manager dialects.
const (
	Apt     PackageManager = "apt"
	Yum     PackageManager = "yum"
	Unknown PackageManager = "unknown"
)

// IsValid returns true if the dialect is one the resolver can dispatch to.
func (p PackageManager) IsValid() bool {
	return p == Apt || p == Yum
}

// String returns the string representation.
func (p PackageManager) String() string {
	return string(p)
}

// Profile describes the provisioning target. It is produced once by
// DetectProfile and read-only afterward.
type Profile struct {
	OSName         string
	OSVersion      string
	PackageManager PackageManager
}

const (
	osReleasePath     = "/etc/os-release"
	redhatReleasePath = "/etc/redhat-release"
)

// DetectProfile identifies the host from /etc/os-release, falling back to
// /etc/redhat-release for older RHEL-family systems that lack it. It returns
// an error when no identification source exists.
func DetectProfile(fsys FileSystem) (*Profile, error) {
	if data, err := fsys.ReadFile(osReleasePath); err == nil {
		return profileFromOSRelease(string(data)), nil
	}

	if data, err := fsys.ReadFile(redhatReleasePath); err == nil {
		name := strings.TrimSpace(string(data))
		return &Profile{OSName: name, PackageManager: Yum}, nil
	}

	return nil, fmt.Errorf("no OS identification file found (%s, %s)", osReleasePath, redhatReleasePath)
}

func profileFromOSRelease(data string) *Profile {
	fields := parseOSRelease(data)

	profile := &Profile{
		OSName:         fields["ID"],
		OSVersion:      fields["VERSION_ID"],
		PackageManager: Unknown,
	}
	if profile.OSName == "" {
		profile.OSName = fields["NAME"]
	}

	ids := []string{fields["ID"]}
	ids = append(ids, strings.Fields(fields["ID_LIKE"])...)
	for _, id := range ids {
		if kind := packageManagerForID(id); kind != Unknown {
			profile.PackageManager = kind
			break
		}
	}

	return profile
}

func packageManagerForID(id string) PackageManager {
	switch strings.ToLower(id) {
	case "debian", "ubuntu":
		return Apt
	case "centos", "rhel", "fedora", "rocky", "almalinux", "amzn", "ol":
		return Yum
	default:
		return Unknown
	}
}

// parseOSRelease parses the KEY=value format of os-release, stripping
// surrounding quotes from values.
func parseOSRelease(data string) map[string]string {
	fields := make(map[string]string)

	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		fields[key] = value
	}

	return fields
}
