package models

type Config struct {
	Debug bool `yaml:"debug" envconfig:"VARPIPE_DEBUG"`
	Api   struct {
		Port                             string `yaml:"port" envconfig:"VARPIPE_API_INTERNAL_PORT"`
		Url                              string `yaml:"url" envconfig:"VARPIPE_API_URL"`
		RunConfigPath                    string `yaml:"runconfigpath" envconfig:"VARPIPE_RUN_CONFIG_PATH"`
		WorkPath                         string `yaml:"workpath" envconfig:"VARPIPE_WORK_PATH"`
		GenomePath                       string `yaml:"genomepath" envconfig:"VARPIPE_GENOME_PATH"`
		BulkIndexingCap                  int    `yaml:"bulkindexingcap" envconfig:"VARPIPE_API_BULK_INDEXING_CAP"`
		RunProcessingConcurrencyLevel    int    `yaml:"runprocessingconcurrencylevel" envconfig:"VARPIPE_API_RUN_PROCESSING_CONCURRENCY_LEVEL"`
		RegionProcessingConcurrencyLevel int    `yaml:"regionprocessingconcurrencylevel" envconfig:"VARPIPE_API_REGION_PROCESSING_CONCURRENCY_LEVEL"`
	} `yaml:"api"`
	Elasticsearch struct {
		Url      string `yaml:"url" envconfig:"VARPIPE_ES_URL"`
		Username string `yaml:"username" envconfig:"VARPIPE_ES_USERNAME"`
		Password string `yaml:"password" envconfig:"VARPIPE_ES_PASSWORD"`
	} `yaml:"elasticsearch"`
}
