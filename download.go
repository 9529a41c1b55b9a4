package b2cloud

import (
	"io"
	"net/http"
	"os"

	log "github.com/colt3k/nglog/ng"
	"github.com/colt3k/utils/encode"
	"github.com/colt3k/utils/encode/encodeenum"
	"github.com/colt3k/utils/file/filenative"
	"github.com/colt3k/utils/hash/hashenum"
	"github.com/colt3k/utils/hash/sha1"

	"github.com/croftbox/b2cloud/errs"
	"github.com/croftbox/b2cloud/internal/auth"
	"github.com/croftbox/b2cloud/internal/caller"
	"github.com/croftbox/b2cloud/perms"
)

// sha1Header carries the stored digest on download responses.
const sha1Header = "X-Bz-Content-Sha1"

// FileStream GETs {downloadUrl}/file/{bucket}/{file} and returns the live
// response. The caller owns resp.Body; connection failures after the
// headers arrive surface as read errors on the body, not here.
func (c *Cloud) FileStream(bucketName, fileName string) (*http.Response, errs.Error) {
	if len(bucketName) == 0 || len(fileName) == 0 {
		return nil, errs.Validation("bucketName and fileName are both required")
	}
	if er := c.gate(perms.DownloadFile, "downloadFileByName"); er != nil {
		return nil, er
	}
	header := auth.BuildAuthMap(c.AuthResponse.AuthorizationToken)
	u := c.AuthResponse.DownloadURL + "/file/" + bucketName + "/" + fileName
	return caller.StreamCall("GET", u, nil, header)
}

// DownloadFile streams the remote object into a truncating write at
// localPath. With verify, the local file is re-hashed after the copy and
// compared against the digest the service advertised; on mismatch the
// call fails with integrity_mismatch and the file is left on disk for the
// caller to inspect or remove.
func (c *Cloud) DownloadFile(bucketName, fileName, localPath string, verify bool) errs.Error {
	if len(bucketName) == 0 || len(fileName) == 0 || len(localPath) == 0 {
		return errs.Validation("bucketName, fileName and localPath are all required")
	}
	resp, er := c.FileStream(bucketName, fileName)
	if er != nil {
		return er
	}
	defer resp.Body.Close()

	out, errCr := os.Create(localPath) // truncates any existing content
	if errCr != nil {
		return errs.New(errCr, "creating "+localPath)
	}
	n, errCp := io.Copy(out, resp.Body)
	if errCl := out.Close(); errCp == nil {
		errCp = errCl
	}
	if errCp != nil {
		return errs.Transport(errCp, "stream interrupted writing "+localPath)
	}
	log.Logf(log.DEBUG, "wrote %d bytes to %s", n, localPath)

	if !verify {
		return nil
	}
	want := resp.Header.Get(sha1Header)
	if len(want) == 0 {
		return errs.Integrity("service response carried no content digest")
	}
	f := filenative.NewFile(localPath)
	got := encode.Encode(f.Hash(sha1.NewHash(sha1.Format(hashenum.SHA1)), true), encodeenum.Hex)
	if got != want {
		return errs.Integrity("digest mismatch: remote " + want + " local " + got)
	}
	return nil
}
