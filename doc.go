// Copyright 2026 PraveenDung. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package sheetsync synchronizes rows between Google Sheets worksheets and local files.

sheetsync can be used from the command line but is really intended to be run from a cron job to keep
a local extract of a shared worksheet up to date and to apply queued row changes back to it. It
authenticates as a service account - there is no interactive consent flow - and addresses rows
strictly by position, so it suits worksheets with a single writer or coordinated writers.

sheetsync supports the following commands:

  - get, to download a worksheet, filter the rows and write the matches to a local JSON or TSV file
  - append, to append a row to a worksheet
  - update, to overwrite a worksheet row by row number
  - delete, to delete a worksheet row by row number
  - sync, to run a YAML job file end to end - download, filter, export and then apply the job's mutations
  - version, to display the version information
*/
package sheetsync
