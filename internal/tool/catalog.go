package tool

import (
	"codeagent/internal/provider"
)

// NewReadFile builds the read_file registry entry.
func NewReadFile(files *FileTools) Tool {
	return NewSpec(
		"read_file",
		"Reads the full contents of a file inside the working directory and returns it as text.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"path": {
					Type:        "string",
					Description: "Path of the file to read, relative to the working directory.",
				},
			},
			Required: []string{"path"},
		},
		files.Read,
	)
}

// NewListFiles builds the list_files registry entry.
func NewListFiles(dirs *DirectoryTools) Tool {
	return NewSpec(
		"list_files",
		"Lists the immediate entries of a directory inside the working directory. Directory names carry a trailing separator. Defaults to the working directory itself.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"path": {
					Type:        "string",
					Description: "Directory to list, relative to the working directory. Optional; defaults to '.'.",
				},
			},
		},
		dirs.List,
	)
}

// NewWriteFile builds the write_file registry entry.
func NewWriteFile(files *FileTools) Tool {
	return NewSpec(
		"write_file",
		"Creates or fully overwrites a file inside the working directory, creating parent directories as needed.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"path": {
					Type:        "string",
					Description: "Path of the file to write, relative to the working directory.",
				},
				"content": {
					Type:        "string",
					Description: "Full new contents of the file. An empty string produces an empty file.",
				},
			},
			Required: []string{"path", "content"},
		},
		files.Write,
	)
}

// NewExecuteBashCommand builds the execute_bash_command registry entry.
func NewExecuteBashCommand(shell *ShellTool) Tool {
	return NewSpec(
		"execute_bash_command",
		"Runs a whitelisted shell command in the working directory on the host and returns its labeled stdout and stderr. Commands outside the whitelist are rejected.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"command": {
					Type:        "string",
					Description: "The shell command to run. Must start with a permitted command prefix.",
				},
			},
			Required: []string{"command"},
		},
		shell.Execute,
	)
}

// NewRunInSandbox builds the run_in_sandbox registry entry.
func NewRunInSandbox(sbx *SandboxTool) Tool {
	return NewSpec(
		"run_in_sandbox",
		"Runs an arbitrary shell command inside a fresh network-isolated container with the working directory mounted read-write. Use this for anything the host whitelist rejects.",
		&provider.ParameterSchema{
			Type: "object",
			Properties: map[string]provider.PropertySchema{
				"command": {
					Type:        "string",
					Description: "The shell command to run inside the container.",
				},
				"image": {
					Type:        "string",
					Description: "Container image to use. Optional; defaults to the configured sandbox image.",
				},
			},
			Required: []string{"command"},
		},
		sbx.Execute,
	)
}
