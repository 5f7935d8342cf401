package redis

import "github.com/google/uuid"

// Redis names used by the board. Channels and keys live in separate Redis
// namespaces, but the prefixes are kept distinct anyway so SCAN and MONITOR
// output stays readable.

// BoardChannel is the pub/sub channel carrying a project board's events.
func BoardChannel(workspaceID, projectID uuid.UUID) string {
	return "board:" + workspaceID.String() + ":" + projectID.String()
}

// TasksCacheKey returns the Redis hash holding a workspace's cached task lists,
// one field per project.
func TasksCacheKey(workspaceID uuid.UUID) string {
	return "board:tasks:" + workspaceID.String()
}

// tasksGenerationKey counts evictions of a workspace's task lists.
func tasksGenerationKey(workspaceID uuid.UUID) string {
	return "board:tasks-gen:" + workspaceID.String()
}
