package runs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"varpipe/api/models"
	gb "varpipe/api/models/constants/genome-build"
	"varpipe/api/models/indexes"
	"varpipe/api/models/runconfig"
	"varpipe/api/models/runs"
	esRepo "varpipe/api/repositories/elasticsearch"
	orchestrationService "varpipe/api/services/orchestration"
	uploadService "varpipe/api/services/upload"
	validationService "varpipe/api/services/validation"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esutil"
)

type (
	CallQueueStructure struct {
		Call      *indexes.Call
		WaitGroup *sync.WaitGroup
	}

	RunService struct {
		Initialized             bool
		RunRequestChan          chan *runs.RunRequest
		RunRequestMap           map[string]*runs.RunRequest
		RunRequestMapMux        sync.RWMutex
		CallBulkIndexingCap     int
		CallBulkIndexingQueue   chan *CallQueueStructure
		CallBulkIndexer         esutil.BulkIndexer
		ConcurrentRunQueue      chan bool
		ElasticsearchClient     *elasticsearch.Client
		Config                  *models.Config
		Orchestration           *orchestrationService.OrchestrationService
		Upload                  *uploadService.UploadService
	}
)

func NewRunService(es *elasticsearch.Client, cfg *models.Config,
	oz *orchestrationService.OrchestrationService, us *uploadService.UploadService) *RunService {

	rz := &RunService{
		Initialized:           false,
		RunRequestChan:        make(chan *runs.RunRequest),
		RunRequestMap:         map[string]*runs.RunRequest{},
		RunRequestMapMux:      sync.RWMutex{},
		CallBulkIndexingCap:   cfg.Api.BulkIndexingCap,
		CallBulkIndexingQueue: make(chan *CallQueueStructure, cfg.Api.BulkIndexingCap),
		ConcurrentRunQueue:    make(chan bool, cfg.Api.RunProcessingConcurrencyLevel),
		ElasticsearchClient:   es,
		Config:                cfg,
		Orchestration:         oz,
		Upload:                us,
	}

	//see: https://www.elastic.co/blog/why-am-i-seeing-bulk-rejections-in-my-elasticsearch-cluster
	var numWorkers = rz.CallBulkIndexingCap / 100
	if numWorkers < 1 {
		numWorkers = 1
	}
	//the lower the denominator (the number of documents per bulk upload). the higher
	//the chances of 100% successful upload, though the longer it may take (negligible)

	bi, _ := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     rz.ElasticsearchClient,
		NumWorkers: numWorkers,
	})
	rz.CallBulkIndexer = bi

	rz.Init()

	return rz
}

func (rz *RunService) Init() {
	// safeguard to prevent multiple initilizations
	if !rz.Initialized {
		// spin up a go routine acting as a listener for run request
		// updates and call bulk indexing
		go func() {
			for {
				select {
				case runRequest := <-rz.RunRequestChan:
					if runRequest.State == runs.Queued {
						fmt.Printf("Queueing a new run request for %s\n", runRequest.ConfigPath)
					}

					runRequest.UpdatedAt = time.Now().String()
					rz.RunRequestMapMux.Lock()
					rz.RunRequestMap[runRequest.Id.String()] = runRequest
					rz.RunRequestMapMux.Unlock()

				case queuedCallItem := <-rz.CallBulkIndexingQueue:

					queuedCall := queuedCallItem.Call
					wg := queuedCallItem.WaitGroup

					// Prepare the data payload: encode call to JSON
					callData, marshallErr := json.Marshal(queuedCall)
					if marshallErr != nil {
						log.Fatalf("Cannot encode call %s:%d: %s\n", queuedCall.Chrom, queuedCall.Pos, marshallErr)
					}

					// Add an item to the BulkIndexer
					marshallErr = rz.CallBulkIndexer.Add(
						context.Background(),
						esutil.BulkIndexerItem{
							// Action field configures the operation to perform (index, create, delete, update)
							Action: "index",
							Index:  fmt.Sprintf("calls-%s", queuedCall.Chrom),

							// Body is an `io.Reader` with the payload
							Body: bytes.NewReader(callData),

							// OnSuccess is called for each successful operation
							OnSuccess: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem) {
								defer wg.Done()
							},

							// OnFailure is called for each failed operation
							OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
								defer wg.Done()
								if err != nil {
									fmt.Printf("ERROR: %s", err)
								} else {
									fmt.Printf("ERROR: %s: %s", res.Error.Type, res.Error.Reason)
								}
							},
						},
					)
					if marshallErr != nil {
						fmt.Printf("Unexpected error: %s", marshallErr)
						wg.Done()
					}
				}
			}
		}()

		rz.Initialized = true
	}
}

// PathAlreadyRunning guards against double-submitting a config
// that is still queued or mid-run.
func (rz *RunService) PathAlreadyRunning(configPath string) bool {
	rz.RunRequestMapMux.Lock()
	defer rz.RunRequestMapMux.Unlock()

	for _, v := range rz.RunRequestMap {
		if v.ConfigPath == configPath && (v.State == runs.Queued || v.State == runs.Running) {
			return true
		}
	}
	return false
}

// ProcessRun carries one queued request through config loading,
// orchestration, call indexing and artifact upload. Expected to
// run on its own goroutine; run-level parallelism is bounded by
// the concurrent run queue.
func (rz *RunService) ProcessRun(request *runs.RunRequest) {
	// take a spot in the queue
	rz.ConcurrentRunQueue <- true
	// free up a spot in the queue
	defer func() { <-rz.ConcurrentRunQueue }()

	updateState := func(state runs.State, message string) {
		request.State = state
		request.Message = message
		rz.RunRequestChan <- request
	}

	updateState(runs.Running, "running")

	rc, loadErr := runconfig.Load(request.ConfigPath)
	if loadErr != nil {
		fmt.Printf("[%s] - Run %s failed : %v\n", time.Now(), request.Id, loadErr)
		updateState(runs.Error, loadErr.Error())
		return
	}

	if validateErr := rc.Validate(); validateErr != nil {
		fmt.Printf("[%s] - Run %s failed : %v\n", time.Now(), request.Id, validateErr)
		updateState(runs.Error, validateErr.Error())
		return
	}

	run, workItems, execErr := rz.Orchestration.ExecuteRun(context.Background(), request.Id.String(), rc)
	if execErr != nil {
		fmt.Printf("[%s] - Run %s failed : %v\n", time.Now(), request.Id, execErr)
		updateState(runs.Error, execErr.Error())
		return
	}

	if indexErr := rz.IndexCalls(request.Id.String(), workItems); indexErr != nil {
		fmt.Printf("[%s] - Run %s failed : %v\n", time.Now(), request.Id, indexErr)
		updateState(runs.Error, indexErr.Error())
		return
	}

	run.State = string(runs.Done)
	run.ConfigPath = request.ConfigPath
	if runIndexErr := esRepo.IndexRun(rz.Config, rz.ElasticsearchClient, run); runIndexErr != nil {
		updateState(runs.Error, runIndexErr.Error())
		return
	}

	var artifactPaths []string
	for _, item := range workItems {
		artifactPaths = append(artifactPaths, item.VrnFile)
	}
	if uploadErr := rz.Upload.UploadRunArtifacts(rc, artifactPaths); uploadErr != nil {
		fmt.Printf("[%s] - Run %s failed : %v\n", time.Now(), request.Id, uploadErr)
		updateState(runs.Error, uploadErr.Error())
		return
	}

	updateState(runs.Done, "run complete")
	fmt.Printf("[%s] - Run %s complete!\n", time.Now(), request.Id)
}

// IndexCalls parses every finished call file and pushes each
// record through the bulk indexing queue, waiting for the
// whole run's worth of documents to flush.
func (rz *RunService) IndexCalls(runId string, workItems []*orchestrationService.WorkItem) error {
	var runWG sync.WaitGroup

	for _, item := range workItems {
		records, parseErr := validationService.ParseVcfCalls(item.VrnFile)
		if parseErr != nil {
			return parseErr
		}

		runWG.Add(len(records))
		for _, record := range records {
			call := &indexes.Call{
				Chrom:       record.Chrom,
				Pos:         record.Pos,
				Id:          record.Id,
				Ref:         record.Ref,
				Alt:         record.Alt,
				Qual:        record.Qual,
				Filter:      record.Filter,
				SampleId:    item.Sample.Description,
				Caller:      item.Caller,
				RunId:       runId,
				GenomeBuild: gb.CastToGenomeBuild(item.Sample.GenomeBuild),
				CreatedTime: time.Now(),
			}

			// pass call (along with the run's waitgroup) to the channel
			rz.CallBulkIndexingQueue <- &CallQueueStructure{
				Call:      call,
				WaitGroup: &runWG,
			}
		}
	}

	// let all queued documents be flushed
	runWG.Wait()

	return nil
}
