package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "VarPipe Run Orchestration Service"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the VarPipe variant-calling run orchestration API!"
	SERVICE_DESCRIPTION ServiceInfo = "VarPipe service for scheduling, executing and indexing variant-calling runs."
	SERVICE_CONTACT     ServiceInfo = "mailto:dev@varpipe.io"

	SERVICE_ARTIFACT    ServiceInfo = "varpipe"
	SERVICE_VERSION     ServiceInfo = "0.1.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("io.varpipe:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
