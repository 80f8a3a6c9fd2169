package upload

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path"
	"time"

	"varpipe/api/models"
	"varpipe/api/models/runconfig"

	"github.com/Jeffail/gabs"
)

type (
	UploadService struct {
		Initialized bool
		Config      *models.Config
	}
)

func NewUploadService(cfg *models.Config) *UploadService {
	us := &UploadService{
		Initialized: false,
		Config:      cfg,
	}

	us.Init()

	return us
}

func (us *UploadService) Init() {
	// initialization if necessary
	if !us.Initialized {
		us.Initialized = true
		fmt.Println("Upload Service Initialized ..")
	}
}

// UploadRunArtifacts copies finalized call files into the run's
// upload directory and, when the run config asks for it, pushes
// them on to a galaxy data library.
func (us *UploadService) UploadRunArtifacts(rc *runconfig.RunConfig, artifactPaths []string) error {
	if mkErr := os.MkdirAll(rc.Upload.Dir, 0755); mkErr != nil {
		return fmt.Errorf("failed to create upload directory %s : %v", rc.Upload.Dir, mkErr)
	}

	for _, artifactPath := range artifactPaths {
		destination := path.Join(rc.Upload.Dir, path.Base(artifactPath))
		if copyErr := copyFile(artifactPath, destination); copyErr != nil {
			return copyErr
		}
		fmt.Printf("[%s] - Uploaded artifact %s\n", time.Now(), destination)

		if rc.Upload.Method == "galaxy" {
			galaxyId := us.UploadToGalaxy(rc.Upload.GalaxyUrl, rc.Upload.GalaxyApiKey, rc.Upload.GalaxyLibrary, destination)
			if galaxyId == "" {
				return fmt.Errorf("galaxy upload failed for %s", destination)
			}
		}
	}

	return nil
}

// UploadToGalaxy registers an uploaded artifact with a galaxy
// data library, retrying transient failures, and returns the
// dataset id galaxy assigned.
func (us *UploadService) UploadToGalaxy(galaxyUrl string, galaxyApiKey string, galaxyLibrary string, artifactPath string) string {

	if us.Config.Debug {
		http.DefaultTransport.(*http.Transport).TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	data := fmt.Sprintf("{\"library\": \"%s\", \"path\": \"%s\"}", galaxyLibrary, artifactPath)

	var (
		galaxyId        string
		galaxyResp      *http.Response
		galaxyErr       error
		attemptCount    int = 0
		maxAttempts     int = 5
		waitTimeSeconds int = 3
	)
	for {
		// prepare upload request to galaxy
		r, _ := http.NewRequest("POST", galaxyUrl+"/api/libraries/datasets", bytes.NewBufferString(data))

		r.Header.Add("Content-Type", "application/json")
		r.Header.Add("x-api-key", galaxyApiKey)

		client := &http.Client{}

		// perform request
		galaxyResp, galaxyErr = client.Do(r)

		// check for errors, possibly try again
		if galaxyErr != nil {
			fmt.Printf("Upload to galaxy error: %s\n", galaxyErr)

			if attemptCount < maxAttempts {
				// increment attempt counter
				attemptCount++

				// give it a few seconds break
				time.Sleep(time.Duration(waitTimeSeconds * int(time.Second)))

				fmt.Printf("trying again...\n")
				continue
			} else {
				fmt.Printf("exiting upload loop...\n")
				return "" // empty galaxy-id string
			}
		}

		fmt.Printf("Got a %d status code on galaxy upload \n", galaxyResp.StatusCode)
		if galaxyResp.StatusCode == 200 || galaxyResp.StatusCode == 201 {
			fmt.Printf("Artifact %s upload to galaxy succeeded: %d\n", artifactPath, galaxyResp.StatusCode)

			// proceed with response processing
			break
		} else if galaxyResp.StatusCode == 401 || galaxyResp.StatusCode == 403 {
			// exit right away on an authorization failure
			fmt.Printf("Received a '%d' from galaxy -- exiting upload loop...\n", galaxyResp.StatusCode)
			return "" // empty galaxy-id string
		} else {
			// print response message
			unsuccessfulAttemptResponseBody, unsuccessfulAttemptResponseErr := ioutil.ReadAll(galaxyResp.Body)
			if unsuccessfulAttemptResponseErr != nil {
				fmt.Printf("Error reading unsuccessful attempt response body: %v", unsuccessfulAttemptResponseErr)
			} else {
				fmt.Printf("Received from after failed attempt: %s\n", string(unsuccessfulAttemptResponseBody))
			}

			if attemptCount < maxAttempts {
				// increment attempt counter
				attemptCount++

				// give it a few seconds break
				time.Sleep(time.Duration(waitTimeSeconds * int(time.Second)))

				fmt.Printf("Failed to upload to galaxy after %d attempts.. Trying again...\n", attemptCount)
				continue
			} else {
				fmt.Printf("After %d failed attempts, exiting upload loop...\n", attemptCount)
				return "" // empty galaxy-id string
			}
		}
	}

	responsebody, bodyerr := ioutil.ReadAll(galaxyResp.Body)
	if bodyerr != nil {
		fmt.Printf("Error reading body: %v\n", bodyerr)
		return ""
	}

	jsonParsed, err := gabs.ParseJSON(responsebody)
	if err != nil {
		fmt.Printf("Parsing error: %s\n", err)
		return ""
	}
	galaxyId = jsonParsed.Path("id").Data().(string)

	fmt.Println("Got galaxy dataset ID: ", galaxyId)

	return galaxyId
}

func copyFile(sourcePath string, destinationPath string) error {
	source, openErr := os.Open(sourcePath)
	if openErr != nil {
		return openErr
	}
	defer source.Close()

	destination, createErr := os.Create(destinationPath)
	if createErr != nil {
		return createErr
	}
	defer destination.Close()

	_, copyErr := io.Copy(destination, source)
	return copyErr
}
