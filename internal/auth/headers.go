package auth

import (
	"os"
	"runtime"
	"strconv"

	"github.com/colt3k/utils/encode"
	"github.com/colt3k/utils/encode/encodeenum"
	"github.com/colt3k/utils/osut"
)

// userAgent is probed once at init; every request reuses it.
var userAgent = buildUserAgent()

// buildUserAgent tags requests with the client and platform version. On
// Linux the osut version probe reads /etc/system-release and panics inside
// the library when that file is absent, so the probe only runs where the
// file exists; elsewhere the version is omitted.
func buildUserAgent() string {
	base := "b2cloud/0.1.0+" + runtime.GOOS
	if osut.Linux() {
		if _, err := os.Stat("/etc/system-release"); err != nil {
			return base
		}
	}
	platform := osut.OS()
	return base + "/" + strconv.Itoa(platform.VersionMajor) + "." + strconv.Itoa(platform.VersionMinor)
}

// BuildAuthMap assembles the headers every authorized call carries.
func BuildAuthMap(authToken string) map[string]string {
	header := make(map[string]string)
	header["Authorization"] = authToken
	header["charset"] = "utf-8"
	header["User-Agent"] = userAgent
	return header
}

// BasicAuthMap builds the basic-credential header used only by authorize.
func BasicAuthMap(accountID, applicationKey string) map[string]string {
	header := make(map[string]string)
	acct := []byte(accountID + ":" + applicationKey)
	header["Authorization"] = "Basic " + encode.Encode(acct, encodeenum.B64STD)
	return header
}
