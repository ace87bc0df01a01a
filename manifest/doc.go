/*
Package manifest loads declarative table manifests for tablestore.

A manifest is a YAML file kept next to the application's model
declarations, listing the tables the application owns:

	tables:
	  - name: notes
	    model: Note
	    description: free-form user notes
	  - name: bookmarks
	    model: Bookmark

At startup the application binds the declared model names to compiled
types and applies the manifest to a registry:

	models := manifest.ModelSet{}
	manifest.AddModel[Note](models, "Note")
	manifest.AddModel[Bookmark](models, "Bookmark")

	m, _ := manifest.Load("tables.yaml")
	m.Apply(reg, models)

This keeps the name→model mapping in one reviewable file and ensures
consistency between what the UI lists and what the engine stores.
MigrationSQL renders the matching CREATE TABLE statements for an
initial schema migration; the tablemanifest command exposes both
operations from the command line.
*/
package manifest
