/*Command bio-adam loads a genomic dataset and prints a summary of it: the
  detected format, the number of partitions and the number of records. With
  -head N, the first N records are printed as well, one per line.

  Usage:
    bio-adam alignments [flags] sample.bam
    bio-adam features -bytes-per-partition=1048576 peaks.narrowPeak
    bio-adam genotypes -head=10 s3://bucket/calls.vcf.gz

  The path may be local or on S3. The subcommand selects the record kind;
  the format is detected from the path suffix.
*/
package main
